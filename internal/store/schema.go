package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	bagsTable     = "shuffle_bags"
	sessionsTable = "sessions"
	evidenceTable = "skill_evidence"
	deltasTable   = "skill_deltas"
	progressTable = "progress_results"
)

// bagScopeColumns identify one shuffle bag.
var bagScopeColumns = []string{"source", "grade_band", "include_lower_bands", "word_length", "phonics", "pool"}

var (
	bagsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "source", Type: field.TypeString},
		{Name: "grade_band", Type: field.TypeString},
		{Name: "include_lower_bands", Type: field.TypeBool, Default: false},
		{Name: "word_length", Type: field.TypeInt, Default: 0},
		{Name: "phonics", Type: field.TypeString},
		{Name: "pool", Type: field.TypeString, Default: ""},
		{Name: "queue", Type: field.TypeString, Size: 2147483647},
		{Name: "last_word", Type: field.TypeString, Default: ""},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	bagsSchema = func() *schema.Table {
		t := schema.NewTable(bagsTable).AddPrimary(bagsColumns[0])
		for _, c := range bagsColumns[1:] {
			t.AddColumn(c)
		}
		return t.AddIndex("shufflebag_scope_pool", true, bagScopeColumns)
	}()

	sessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "started_at", Type: field.TypeInt64},
		{Name: "ended_at", Type: field.TypeInt64, Nullable: true},
		{Name: "word_length", Type: field.TypeInt},
		{Name: "solved", Type: field.TypeBool, Default: false},
		{Name: "guesses", Type: field.TypeInt, Default: 0},
		{Name: "record", Type: field.TypeString, Size: 2147483647},
	}
	sessionsSchema = func() *schema.Table {
		t := schema.NewTable(sessionsTable).AddPrimary(sessionsColumns[0])
		for _, c := range sessionsColumns[1:] {
			t.AddColumn(c)
		}
		return t.AddIndex("session_started_at", false, []string{"started_at"})
	}()

	evidenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "session_id", Type: field.TypeString},
		{Name: "student_id", Type: field.TypeString},
		{Name: "source", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "features", Type: field.TypeString, Size: 2147483647},
	}
	evidenceSchema = func() *schema.Table {
		t := schema.NewTable(evidenceTable).AddPrimary(evidenceColumns[0])
		for _, c := range evidenceColumns[1:] {
			t.AddColumn(c)
		}
		return t.AddIndex("evidence_student_created", false, []string{"student_id", "created_at"})
	}()

	deltasColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "student_id", Type: field.TypeString},
		{Name: "skill_id", Type: field.TypeString},
		{Name: "delta", Type: field.TypeFloat64},
	}
	deltasSchema = func() *schema.Table {
		t := schema.NewTable(deltasTable).AddPrimary(deltasColumns[0])
		for _, c := range deltasColumns[1:] {
			t.AddColumn(c)
		}
		return t.
			AddIndex("delta_student_skill", false, []string{"student_id", "skill_id"}).
			AddIndex("delta_sequence", false, []string{"sequence"})
	}()

	progressColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "day", Type: field.TypeString},
		{Name: "word", Type: field.TypeString},
		{Name: "won", Type: field.TypeBool, Default: false},
		{Name: "guesses", Type: field.TypeInt},
		{Name: "at", Type: field.TypeInt64},
	}
	progressSchema = func() *schema.Table {
		t := schema.NewTable(progressTable).AddPrimary(progressColumns[0])
		for _, c := range progressColumns[1:] {
			t.AddColumn(c)
		}
		return t.AddIndex("progress_day", false, []string{"day"})
	}()
)

// Tables lists every table the store migrates.
var Tables = []*schema.Table{
	bagsSchema,
	sessionsSchema,
	evidenceSchema,
	deltasSchema,
	progressSchema,
}
