/*
Package status collects copy results and turns them into a run summary.

🎯 Purpose:
- Defines the per-file Result and its FileStatus (new, overwritten, failed)
- Tracks results from concurrent workers behind a single mutex
- Logs one line per result and debug progress through a FileFormatter
- Aggregates counts and bytes per extension key into a Summary
*/
package status
