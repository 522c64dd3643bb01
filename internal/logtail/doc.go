// Package logtail reads the tail of the thermo log file for the dashboard's
// log view.
//
// Read keeps a ring buffer of maxLines entries while scanning the file once,
// so memory stays bounded by the requested window rather than the file size.
// A missing file is not an error; the log simply has not been written yet.
//
// Level and Filter understand the slog text handler's "level=" attribute and
// let the view hide lines below a chosen severity:
//
//	lines, err := logtail.Read(path, 400)
//	if err != nil {
//		return err
//	}
//	warnings := logtail.Filter(lines, slog.LevelWarn)
package logtail
