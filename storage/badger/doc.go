// Package badger implements storage.MemoryRepository on BadgerDB.
//
// Layout: one primary key per record plus three secondary indexes
// (creation time, scheduled date, tag). Index keys embed fixed-width
// BigEndian timestamps so lexicographic iteration is chronological.
// Badger's internal logging is routed through slog.
package badger
