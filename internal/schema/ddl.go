package schema

// Version is the highest schema version this build knows how to create.
const Version = 1

// Collection is one storage collection with the statements that create it and
// its secondary indexes.
type Collection struct {
	Name       string
	Statements []string
}

// Collections lists every collection in creation order.
var Collections = []Collection{
	{
		Name: "products",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS products (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				price NUMERIC(14,2) NOT NULL,
				note TEXT NOT NULL DEFAULT '',
				version BIGINT NOT NULL DEFAULT 1,
				doc JSONB NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS products_name_idx ON products (name)`,
			`CREATE INDEX IF NOT EXISTS products_price_idx ON products (price)`,
			`CREATE INDEX IF NOT EXISTS products_note_idx ON products (note)`,
		},
	},
	{
		Name: "invoices",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS invoices (
				invoice_number TEXT PRIMARY KEY,
				date DATE NOT NULL,
				customer_name TEXT NOT NULL,
				is_gst BOOLEAN NOT NULL DEFAULT FALSE,
				item_count INT NOT NULL DEFAULT 0,
				doc JSONB NOT NULL,
				saved_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE INDEX IF NOT EXISTS invoices_date_idx ON invoices (date)`,
			`CREATE INDEX IF NOT EXISTS invoices_customer_name_idx ON invoices (customer_name)`,
		},
	},
	{
		Name: "gst_records",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS gst_records (
				id BIGSERIAL PRIMARY KEY,
				date DATE NOT NULL,
				invoice_number TEXT NOT NULL,
				customer_name TEXT NOT NULL,
				customer_gstin TEXT NOT NULL DEFAULT '',
				product_name TEXT NOT NULL,
				subtotal NUMERIC NOT NULL,
				cgst NUMERIC NOT NULL,
				sgst NUMERIC NOT NULL,
				total NUMERIC NOT NULL,
				doc JSONB NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS gst_records_date_idx ON gst_records (date)`,
			// Many records share one invoice number.
			`CREATE INDEX IF NOT EXISTS gst_records_invoice_number_idx ON gst_records (invoice_number)`,
			`CREATE INDEX IF NOT EXISTS gst_records_customer_name_idx ON gst_records (customer_name)`,
		},
	},
}

const metaDDL = `CREATE TABLE IF NOT EXISTS schema_meta (
	id SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
	version INT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
