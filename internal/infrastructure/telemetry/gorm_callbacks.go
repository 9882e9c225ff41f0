package telemetry

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type registerFunc func(name string, fn func(*gorm.DB)) error

// gormHook pairs the before/after registration points of one gorm processor.
type gormHook struct {
	kind      string
	operation string // empty for row and raw; derived from the SQL
	before    registerFunc
	after     registerFunc
}

// gormHooks lists the hook points of every gorm processor. When endBefore is
// set, after-callbacks are ordered ahead of the callback named endBefore+kind,
// so they still see the span otelgorm ends there.
func gormHooks(db *gorm.DB, endBefore string) []gormHook {
	ahead := func(kind string) string {
		if endBefore == "" {
			return ""
		}
		return endBefore + kind
	}
	cb := db.Callback()
	return []gormHook{
		{"create", "INSERT", cb.Create().Before("gorm:create").Register,
			cb.Create().After("gorm:create").Before(ahead("create")).Register},
		{"query", "SELECT", cb.Query().Before("gorm:query").Register,
			cb.Query().After("gorm:query").Before(ahead("query")).Register},
		{"update", "UPDATE", cb.Update().Before("gorm:update").Register,
			cb.Update().After("gorm:update").Before(ahead("update")).Register},
		{"delete", "DELETE", cb.Delete().Before("gorm:delete").Register,
			cb.Delete().After("gorm:delete").Before(ahead("delete")).Register},
		{"row", "", cb.Row().Before("gorm:row").Register,
			cb.Row().After("gorm:row").Before(ahead("row")).Register},
		{"raw", "", cb.Raw().Before("gorm:raw").Register,
			cb.Raw().After("gorm:raw").Before(ahead("raw")).Register},
	}
}

// registerTimedCallbacks stamps a start time before every statement and calls
// after with the elapsed time once gorm has run it. prefix namespaces both
// the callback names and the stored start time.
func registerTimedCallbacks(db *gorm.DB, prefix, endBefore string, after func(tx *gorm.DB, operation string, elapsed time.Duration)) error {
	startKey := prefix + ":started_at"
	for _, h := range gormHooks(db, endBefore) {
		if err := h.before(prefix+":before_"+h.kind, func(tx *gorm.DB) {
			tx.InstanceSet(startKey, time.Now())
		}); err != nil {
			return err
		}

		operation := h.operation
		if err := h.after(prefix+":after_"+h.kind, func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(startKey)
			if !ok {
				return
			}
			started, ok := v.(time.Time)
			if !ok {
				return
			}
			op := operation
			if op == "" {
				op = detectOperationType(tx.Statement.SQL.String())
			}
			after(tx, op, time.Since(started))
		}); err != nil {
			return err
		}
	}
	return nil
}

// statementTable names the ledger table a statement touched.
func statementTable(tx *gorm.DB) string {
	if tx.Statement.Table != "" {
		return tx.Statement.Table
	}
	if tx.Statement.Schema != nil && tx.Statement.Schema.Table != "" {
		return tx.Statement.Schema.Table
	}
	return "unknown"
}

// detectOperationType classifies raw SQL by its leading keyword.
func detectOperationType(sql string) string {
	sql = strings.ToUpper(strings.TrimSpace(sql))
	for _, op := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.HasPrefix(sql, op) {
			return op
		}
	}
	if strings.HasPrefix(sql, "WITH") {
		return "SELECT"
	}
	return "OTHER"
}
