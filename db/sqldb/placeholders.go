package sqldb

import (
	"strconv"
	"strings"
)

const PgPlaceholderPrefix byte = '$'

// ReplaceStaticPlaceholders rewrites each `?` to an ordinal placeholder ($1, $2, ...).
// `??` and anything inside single-quoted literals are left untouched.
func ReplaceStaticPlaceholders(sql string, prefix byte) string {
	if prefix == '?' || prefix == 0 {
		return sql
	}
	var builder strings.Builder
	builder.Grow(len(sql) + 8)
	cnt := 1
	inQuote := false
	i := 0
	for i < len(sql) {
		c := sql[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			builder.WriteByte(c)
		case inQuote:
			builder.WriteByte(c)
		case c == '?':
			// Do Not Touch Dynamic Placeholders '??'
			if i+1 < len(sql) && sql[i+1] == '?' {
				builder.WriteString("??")
				i += 2
				continue
			}
			builder.WriteByte(prefix)
			builder.WriteString(strconv.Itoa(cnt))
			cnt++
		default:
			builder.WriteByte(c)
		}
		i++
	}
	return builder.String()
}

// MaxOrdinalPlaceholder returns the highest $n referenced outside single-quoted
// literals, i.e. the parameter count a statement needs. 0 if none.
func MaxOrdinalPlaceholder(sql string, prefix byte) int {
	maxN := 0
	inQuote := false
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		if c == '\'' {
			inQuote = !inQuote
			continue
		}
		if inQuote || c != prefix {
			continue
		}
		j := i + 1
		for j < len(sql) && sql[j] >= '0' && sql[j] <= '9' {
			j++
		}
		if j == i+1 {
			continue
		}
		if n, err := strconv.Atoi(sql[i+1 : j]); err == nil && n > maxN {
			maxN = n
		}
		i = j - 1
	}
	return maxN
}
