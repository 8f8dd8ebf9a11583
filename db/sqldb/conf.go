package sqldb

import (
	"fmt"
	"strings"
)

// Conf is the connection configuration. It is loaded once and shared read-only
// by every handle spawned from it; nothing in this module mutates it after load.
type Conf struct {
	Type  string `json:"type"` // pgsql
	Host  string `json:"host"`
	Port  int    `json:"port"`
	User  string `json:"user"`
	PW    string `json:"pw"`
	DB    string `json:"db"`
	TZ    string `json:"tz"`    // Connection Timezone
	DSN   string `json:"dsn"`   // To Overwrite Default DSN
	Debug bool   `json:"debug"` // Mirror every SQL text to the diagnostic sink
}

// ConnString returns DSN if set, otherwise a libpq-style keyword/value string.
func (c *Conf) ConnString() string {
	if c.DSN != "" {
		return c.DSN
	}
	// NOTE: sslmode=disable is often used for local dev, adjust with DSN as needed.
	parts := []string{
		fmt.Sprintf("host=%s", quoteConnValue(c.Host)),
		fmt.Sprintf("port=%d", c.Port),
	}
	if c.User != "" {
		parts = append(parts, fmt.Sprintf("user=%s", quoteConnValue(c.User)))
	}
	if c.PW != "" {
		parts = append(parts, fmt.Sprintf("password=%s", quoteConnValue(c.PW)))
	}
	if c.DB != "" {
		parts = append(parts, fmt.Sprintf("dbname=%s", quoteConnValue(c.DB)))
	}
	parts = append(parts, "sslmode=disable")
	if c.TZ != "" {
		parts = append(parts, fmt.Sprintf("timezone=%s", quoteConnValue(c.TZ)))
	}
	return strings.Join(parts, " ")
}

// quoteConnValue single-quotes a keyword/value entry when it holds spaces,
// quotes or backslashes, escaping the latter two.
func quoteConnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}
