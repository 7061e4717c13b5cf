/*
Package operation copies enumerated files into their extension folders.

	+-------------+
	|    Pool     |
	|  (Workers)  |
	+------+------+
	       |
	+------+------+
	|   Copier    |
	| (Per file)  |
	+------+------+
	       |
	+------+------+
	|   Tracker   |
	|  (Results)  |
	+-------------+

🎯 Purpose:
- Copies each file to {destination}/{extension}/{name}
- Preserves content, permissions and timestamps
- Bounds concurrency with a fixed number of workers

🔄 Flow:
1. Pool receives file references from the scan package
2. Each worker classifies the file and ensures its folder exists
3. Content is written to a temp file and renamed over the destination
4. The result is handed to the status tracker, which logs it

⚡ Failure isolation:
A copy never returns an error. Failures are recorded in the result and counted in
the summary, so one unreadable file never stops the others.

🔍 Example:

	copier, err := operation.NewCopier(operation.Options{
		Destination: "sorted",
		Classifier:  classify.New(""),
		Logger:      &logger,
	})
	pool := operation.NewPool(copier, status.NewTracker(&logger, nil), 8)
	summary := pool.Run(ctx, refs)
*/
package operation
