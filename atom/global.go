package atom

import "sync"

var (
	globalOnce  sync.Once
	globalTable *Table
)

// Init creates the process-wide atom table. Only the first call has an effect;
// later calls return the table created by the first one.
func Init(opts ...Option) *Table {
	globalOnce.Do(func() {
		globalTable = NewTable(opts...)
	})
	return globalTable
}

// Global returns the process-wide atom table. If Init has not been called, the
// table is created with the HTML vocabulary.
func Global() *Table {
	return Init(WithHTMLVocabulary())
}
