// Package dialect saves aggregated frames to ClickHouse or Postgres.
package dialect

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	_ "github.com/jackc/pgx/stdlib"
	"github.com/kelseyhightower/envconfig"

	"github.com/fultonring/fahe"
)

const (
	ch = "clickhouse"
	pg = "postgres"
)

// Creds come from the environment: FAHE_DB_DIALECT, FAHE_DB_HOST, ...
type Creds struct {
	Dialect  string `envconfig:"DIALECT" default:"clickhouse"`
	Host     string `envconfig:"HOST" default:"127.0.0.1"`
	Port     int    `envconfig:"PORT" default:"9000"`
	User     string `envconfig:"USER" default:"default"`
	Password string `envconfig:"PASSWORD"`
	Database string `envconfig:"DATABASE" default:"default"`
}

func CredsFromEnv() (*Creds, error) {
	creds := &Creds{}
	if e := envconfig.Process("fahe_db", creds); e != nil {
		return nil, e
	}

	return creds, nil
}

// Dialect wraps a *sql.DB plus what differs between the databases.
type Dialect struct {
	db      *sql.DB
	dialect string

	create string
	dropIf string
	types  map[fahe.DataTypes]string

	bufSize int // in MB
}

// Open connects with creds and returns the matching Dialect.
func Open(creds *Creds) (*Dialect, error) {
	switch strings.ToLower(creds.Dialect) {
	case ch:
		db := clickhouse.OpenDB(&clickhouse.Options{
			Addr: []string{fmt.Sprintf("%s:%d", creds.Host, creds.Port)},
			Auth: clickhouse.Auth{
				Database: creds.Database,
				Username: creds.User,
				Password: creds.Password,
			},
		})

		return NewDialect(ch, db)
	case pg:
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
			creds.User, creds.Password, creds.Host, creds.Port, creds.Database)

		var (
			db *sql.DB
			e  error
		)
		if db, e = sql.Open("pgx", dsn); e != nil {
			return nil, e
		}

		return NewDialect(pg, db)
	default:
		return nil, fmt.Errorf("unknown dialect %s", creds.Dialect)
	}
}

func NewDialect(dialect string, db *sql.DB) (*Dialect, error) {
	d := &Dialect{db: db, dialect: strings.ToLower(dialect), bufSize: 16}

	switch d.dialect {
	case ch:
		d.create = "CREATE TABLE ?TableName (?fields) ENGINE = MergeTree() ORDER BY (?OrderBy)"
		d.dropIf = "DROP TABLE IF EXISTS ?TableName"
		d.types = map[fahe.DataTypes]string{
			fahe.DTint:    "Int64",
			fahe.DTfloat:  "Float64",
			fahe.DTstring: "String",
		}
	case pg:
		d.create = "CREATE TABLE ?TableName (?fields)"
		d.dropIf = "DROP TABLE IF EXISTS ?TableName"
		d.types = map[fahe.DataTypes]string{
			fahe.DTint:    "BIGINT",
			fahe.DTfloat:  "DOUBLE PRECISION",
			fahe.DTstring: "TEXT",
		}
	default:
		return nil, fmt.Errorf("no support for database %s", dialect)
	}

	return d, nil
}

// ***************** Methods *****************

func (d *Dialect) DialectName() string {
	return d.dialect
}

func (d *Dialect) DB() *sql.DB {
	return d.db
}

func (d *Dialect) Close() error {
	return d.db.Close()
}

func (d *Dialect) SetBufSize(mb int) {
	d.bufSize = mb
}

func (d *Dialect) Exists(tableName string) bool {
	var (
		res *sql.Rows
		e   error
	)

	if d.dialect == ch {
		if res, e = d.db.Query(fmt.Sprintf("EXISTS TABLE %s", tableName)); e != nil {
			panic(e)
		}

		defer func() { _ = res.Close() }()

		var exist uint8
		res.Next()
		if ex := res.Scan(&exist); ex != nil {
			panic(ex)
		}

		return exist == 1
	}

	if res, e = d.db.Query(fmt.Sprintf("SELECT to_regclass('%s')", tableName)); e != nil {
		panic(e)
	}

	defer func() { _ = res.Close() }()

	var exist any
	res.Next()
	if ex := res.Scan(&exist); ex != nil {
		panic(ex)
	}

	return exist != nil
}

func (d *Dialect) DropTable(tableName string) error {
	if !d.Exists(tableName) {
		return nil
	}

	_, e := d.db.Exec(strings.ReplaceAll(d.dropIf, "?TableName", tableName))

	return e
}

// CreateSQL builds the CREATE TABLE statement for df.
func (d *Dialect) CreateSQL(tableName, orderBy string, df *fahe.Frame) (string, error) {
	noDesc := strings.ReplaceAll(orderBy, " ", "")
	if orderBy != "" && !df.HasColumns(strings.Split(noDesc, ",")...) {
		return "", fmt.Errorf("not all columns present in orderBy %s", noDesc)
	}

	if orderBy == "" {
		noDesc = df.ColumnNames()[0]
	}

	var flds []string
	for _, nm := range df.ColumnNames() {
		col, _ := df.Column(nm)

		dbType, ok := d.types[col.VectorType()]
		if !ok {
			return "", fmt.Errorf("cannot map type %s to a DB type", col.VectorType())
		}

		flds = append(flds, fmt.Sprintf("%s %s", quoteField(nm), dbType))
	}

	create := strings.ReplaceAll(d.create, "?TableName", tableName)
	create = strings.Replace(create, "?fields", strings.Join(flds, ","), 1)
	create = strings.Replace(create, "?OrderBy", quoteField(noDesc), 1)

	return create, nil
}

func (d *Dialect) Create(tableName, orderBy string, overwrite bool, df *fahe.Frame) error {
	if d.Exists(tableName) {
		if !overwrite {
			return fmt.Errorf("table %s exists", tableName)
		}

		if e := d.DropTable(tableName); e != nil {
			return e
		}
	}

	var (
		create string
		e      error
	)
	if create, e = d.CreateSQL(tableName, orderBy, df); e != nil {
		return e
	}

	_, e = d.db.Exec(create)

	return e
}

func (d *Dialect) InsertValues(tableName string, values []byte) error {
	qry := fmt.Sprintf("INSERT INTO %s VALUES ", tableName) + string(values)
	_, e := d.db.Exec(qry)

	return e
}

// Save creates tableName (honoring overwrite) and inserts every row of df
// in buffered multi-row VALUES statements.
func (d *Dialect) Save(tableName, orderBy string, overwrite bool, df *fahe.Frame) error {
	const (
		bSep   = byte(',')
		bOpen  = byte('(')
		bClose = byte(')')
	)

	if e := d.Create(tableName, orderBy, overwrite, df); e != nil {
		return e
	}

	var buffer []byte
	bsize := d.bufSize * 1024 * 1024

	for row := 0; row < df.RowCount(); row++ {
		if buffer != nil {
			buffer = append(buffer, bSep)
		}

		buffer = append(buffer, bOpen)
		for _, x := range df.Row(row) {
			buffer = append(append(buffer, []byte(d.ToString(x))...), bSep)
		}

		buffer[len(buffer)-1] = bClose

		if len(buffer) >= bsize {
			if e := d.InsertValues(tableName, buffer); e != nil {
				return e
			}

			buffer = nil
		}
	}

	if buffer != nil {
		return d.InsertValues(tableName, buffer)
	}

	return nil
}

// ToString returns a version of val that can be placed into SQL.
func (d *Dialect) ToString(val any) string {
	switch x := val.(type) {
	case int:
		return fmt.Sprintf("%d", x)
	case float64:
		return fmt.Sprintf("%v", x)
	case string:
		return fmt.Sprintf("'%s'", strings.ReplaceAll(x, "'", "''"))
	default:
		panic(fmt.Errorf("unsupported data type in ToString"))
	}
}

// quoteField protects column names that start with a digit
// (502_investment_dollars).
func quoteField(nm string) string {
	if !strings.Contains(nm, ",") {
		return `"` + nm + `"`
	}

	var quoted []string
	for _, fld := range strings.Split(nm, ",") {
		quoted = append(quoted, `"`+fld+`"`)
	}

	return strings.Join(quoted, ",")
}
