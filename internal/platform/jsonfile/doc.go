// Package jsonfile implements store.TaskStore on a single JSON document laid
// out as {"YYYY": {"MM": [task, ...]}}.
//
// Every operation reads the whole document, and writes replace it atomically
// through a temp file and rename. A sibling .lock file guards the document
// across processes: readers take a shared lock and writers an exclusive one.
package jsonfile
