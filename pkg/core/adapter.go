package core

// Credentials carries the user name and password used to open a connection.
type Credentials struct {
	User     string
	Password string
}

// AdapterConfig holds configuration for connecting to a database.
type AdapterConfig struct {
	Profile     string
	Path        string
	Host        string
	Port        int
	Database    string
	Schema      string
	Credentials Credentials
	Options     map[string]string
	Params      map[string]any
}
