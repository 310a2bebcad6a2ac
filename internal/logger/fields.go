package logger

import (
	"fmt"
	"log/slog"
)

// Standard field keys for structured logging across the catalog, blob
// filesystem, and orchestration layers. Use these keys consistently so
// log lines stay groupable by object/bucket/part regardless of which
// component emitted them.
const (
	KeyOperation = "operation" // high-level operation name: commit_part, prune, archive, check
	KeyComponent = "component" // component name: catalog, blobstore, objectstore, dbtools

	KeyBucketID   = "bucket_id"
	KeyBucketName = "bucket_name"
	KeyObjectID   = "object_id"
	KeyPartID     = "part_id"
	KeyHash       = "hash"
	KeyMIMEType   = "mime_type"
	KeySize       = "size"

	KeyTaskSlot = "task_slot" // "archive" or "check"
	KeyTotal    = "total"
	KeyComplete = "completed"

	KeyDurationMs = "duration_ms"
	KeyError      = "error"
	KeyErrorCode  = "error_code"

	KeySQLFile = "sql_file"
	KeyTool    = "tool" // psql, pg_dump, pg_restore
)

// Operation returns a slog.Attr for the high-level operation name.
func Operation(name string) slog.Attr { return slog.String(KeyOperation, name) }

// Component returns a slog.Attr for the emitting component.
func Component(name string) slog.Attr { return slog.String(KeyComponent, name) }

// BucketID returns a slog.Attr for a bucket's UUID.
func BucketID(id fmt.Stringer) slog.Attr { return slog.String(KeyBucketID, id.String()) }

// BucketName returns a slog.Attr for a bucket's human-readable name.
func BucketName(name string) slog.Attr { return slog.String(KeyBucketName, name) }

// ObjectID returns a slog.Attr for an object's UUID.
func ObjectID(id fmt.Stringer) slog.Attr { return slog.String(KeyObjectID, id.String()) }

// PartID returns a slog.Attr for a part's UUID.
func PartID(id fmt.Stringer) slog.Attr { return slog.String(KeyPartID, id.String()) }

// Hash returns a slog.Attr for a content hash.
func Hash(h string) slog.Attr { return slog.String(KeyHash, h) }

// MIMEType returns a slog.Attr for a sniffed MIME type/subtype pair.
func MIMEType(typ, subtype string) slog.Attr {
	return slog.String(KeyMIMEType, typ+"/"+subtype)
}

// Size returns a slog.Attr for a byte size.
func Size(n int64) slog.Attr { return slog.Int64(KeySize, n) }

// TaskSlot returns a slog.Attr identifying which task slot an operation holds.
func TaskSlot(slot string) slog.Attr { return slog.String(KeyTaskSlot, slot) }

// Total returns a slog.Attr for a progress total.
func Total(n int) slog.Attr { return slog.Int(KeyTotal, n) }

// Completed returns a slog.Attr for a progress counter.
func Completed(n int64) slog.Attr { return slog.Int64(KeyComplete, n) }

// DurationMs returns a slog.Attr for a duration in milliseconds.
func DurationMs(ms float64) slog.Attr { return slog.Float64(KeyDurationMs, ms) }

// Err returns a slog.Attr for an error, or a zero Attr for a nil error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// SQLFile returns a slog.Attr for a migration/schema SQL file path.
func SQLFile(path string) slog.Attr { return slog.String(KeySQLFile, path) }

// Tool returns a slog.Attr for the external SQL tool invoked (psql, pg_dump, pg_restore).
func Tool(name string) slog.Attr { return slog.String(KeyTool, name) }
