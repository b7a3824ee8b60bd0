package primary

import (
	"context"
	"io"
)

// LoaderService defines the primary port for materializing a CSV file into the store.
type LoaderService interface {
	// LoadCSV replaces the store contents with the records read from req.Source.
	LoadCSV(ctx context.Context, req LoadRequest) (*LoadResponse, error)
}

// LoadRequest contains parameters for a load.
type LoadRequest struct {
	Source io.Reader
	Name   string // for error messages, e.g. the file path
}

// LoadResponse contains the result of a load.
type LoadResponse struct {
	Rows      int
	Years     int
	Countries int
}
