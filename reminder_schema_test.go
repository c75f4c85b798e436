package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableSchema(t *testing.T) {
	schema, err := NewTableSchema("", "")
	require.NoError(t, err)
	assert.Equal(t, VariantScheduled, schema.Variant)
	assert.Equal(t, "my_schema_1.reminders", schema.Table)
	assert.Equal(t, "id", schema.Key)
	assert.Equal(t, 0, schema.ColumnIndex("id"))
	assert.Equal(t, -1, schema.ColumnIndex("missing"))

	basic, err := NewTableSchema(VariantBasic, "public.reminders")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "reminder", "reminder_date_arg_tz", "activated"}, basic.ColumnNames())

	_, err = NewTableSchema("weekly-only", "")
	require.Error(t, err)
}

func TestTableSchema_InsertColumnsSkipIdentifier(t *testing.T) {
	schema, err := NewTableSchema(VariantScheduled, "")
	require.NoError(t, err)

	for _, col := range schema.InsertColumns() {
		assert.NotEqual(t, "id", col.Name)
	}
	assert.Len(t, schema.InsertColumns(), len(schema.Columns)-1)
}

func TestTableSchema_WithDefaults(t *testing.T) {
	schema, err := NewTableSchema(VariantScheduled, "")
	require.NoError(t, err)

	row := schema.WithDefaults(Row{"reminder": "Stretch", "hour_value": int64(7), "chat_id": nil})
	assert.Equal(t, "Stretch", row["reminder"])
	assert.Equal(t, int64(7), row["hour_value"])
	assert.Equal(t, int64(0), row["minute_value"])
	assert.Equal(t, true, row["activated"])
	assert.Equal(t, "daily", row["frequency"])
	assert.Nil(t, row["chat_id"])
	assert.Nil(t, row["last_completed_at"])
}

func TestTableSchema_WritableColumn(t *testing.T) {
	schema, err := NewTableSchema(VariantScheduled, "")
	require.NoError(t, err)

	col, err := schema.WritableColumn("frequency")
	require.NoError(t, err)
	assert.True(t, col.HasOption("once"))
	assert.False(t, col.HasOption("hourly"))

	_, err = schema.WritableColumn("last_completed_at")
	require.ErrorIs(t, err, ErrReadOnlyColumn)
	_, err = schema.WritableColumn(`activated" = false; --`)
	require.ErrorIs(t, err, ErrUnknownColumn)
}

func TestQuoteQualified(t *testing.T) {
	assert.Equal(t, `"my_schema_1"."reminders"`, quoteQualified("my_schema_1.reminders"))
	assert.Equal(t, `"odd""name"`, quoteIdentifier(`odd"name`))
	assert.Equal(t, []string{"$2", "$3"}, postgresDialect.placeholders(2, 2))
	assert.Equal(t, []string{"?", "?"}, sqliteDialect.placeholders(1, 2))
}
