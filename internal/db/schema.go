package db

// PortsTable is the table the store loader fills and the aggregation service reads.
const PortsTable = "Ports"

// SchemaSQL is the schema of a portstats store.
//
// This is the single source of truth for the Ports table. Repository tests load
// it through GetSchemaSQL() instead of declaring their own CREATE TABLE, so a
// query that references a column missing here fails in tests with
// "no such column".
//
// Column names follow the IMF PortWatch CSV headers, so a store produced by
// other tooling from the same file matches as long as these seven columns exist.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS Ports (
	year INTEGER NOT NULL,
	month INTEGER NOT NULL CHECK(month BETWEEN 1 AND 12),
	country TEXT NOT NULL,
	ISO3 TEXT NOT NULL,
	portcalls INTEGER NOT NULL DEFAULT 0 CHECK(portcalls >= 0),
	import REAL NOT NULL DEFAULT 0 CHECK(import >= 0),
	export REAL NOT NULL DEFAULT 0 CHECK(export >= 0)
);

CREATE INDEX IF NOT EXISTS idx_ports_year ON Ports(year);
CREATE INDEX IF NOT EXISTS idx_ports_country ON Ports(country);
`

// RequiredColumns are the columns the aggregation queries touch.
var RequiredColumns = []string{"year", "month", "country", "ISO3", "portcalls", "import", "export"}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
