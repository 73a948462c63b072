package database

import (
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"

	"github.com/careqhq/careq/internal/domain"
	"github.com/careqhq/careq/internal/domain/appointment"
	"github.com/careqhq/careq/internal/domain/symptom"
)

// columnsOf parses a model the way gorm's migrator does and returns
// its table name and column set.
func columnsOf(t *testing.T, model any) (string, map[string]bool) {
	t.Helper()

	s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	cols := make(map[string]bool, len(s.FieldsByDBName))
	for name := range s.FieldsByDBName {
		cols[name] = true
	}
	return s.Table, cols
}

var indexTargets = regexp.MustCompile(`ON (\w+) \(([^)]+)\)`)

// The raw index DDL bypasses gorm's column mapping, so nothing catches
// a drifted column name until the statement hits Postgres and Migrate
// fails the boot. Pin every referenced column to the parsed schema.
func TestRawIndexesReferenceExistingColumns(t *testing.T) {
	tables := map[string]map[string]bool{}
	for _, model := range []any{
		&appointment.Appointment{},
		&symptom.Symptom{},
		&domain.AuditLog{},
	} {
		table, cols := columnsOf(t, model)
		tables[table] = cols
	}

	for _, idx := range rawIndexes {
		m := indexTargets.FindStringSubmatch(idx.query)
		require.NotNil(t, m, "index %s: no ON <table> (<columns>) clause", idx.name)

		table, cols := m[1], tables[m[1]]
		require.NotNil(t, cols, "index %s targets unknown table %s", idx.name, table)

		for _, raw := range strings.Split(m[2], ",") {
			col := strings.Fields(strings.TrimSpace(raw))[0] // strip ASC/DESC
			assert.True(t, cols[col], "index %s references %s.%s which the model does not define", idx.name, table, col)
		}
	}
}

// The queue reads ORDER BY urgency DESC, date ASC, time ASC; the
// partial index must cover exactly those columns in that order.
func TestQueueOrderIndexMatchesQueueSort(t *testing.T) {
	var query string
	for _, idx := range rawIndexes {
		if idx.name == "idx_appointments_queue_order" {
			query = idx.query
		}
	}
	require.NotEmpty(t, query)

	assert.Contains(t, query, "(urgency_level DESC, appointment_date ASC, appointment_time ASC)")
	assert.Contains(t, query, "WHERE status IN ('Confirmed', 'Pending')")
}
