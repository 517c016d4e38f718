// Package fuzzypatch repairs unified-diff patches that no longer apply
// cleanly.
//
// The engine re-anchors hunks against the current content of the target file,
// drops instructions the file already satisfies, matches rejected hunks back
// to a reference patch and splits hunks into minimal change batches. The
// Service façade exposes the engine together with a transactional patch
// session:
//
//	srv := fuzzypatch.New()
//	fixed, ok := srv.Correct(ctx, patch, content)
//	res, _ := srv.Apply(ctx, fixed)
//	for _, reject := range res.Rejects {
//		retry := srv.Intersect(ctx, fixed, reject.Patch)
//		...
//	}
//
// The same operations are available as the "system/patch" action service
// through Service.Executor.
package fuzzypatch
