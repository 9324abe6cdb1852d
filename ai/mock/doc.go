// Package mock provides a scripted test double for the extraction capability.
//
// The mock replays a scripted sequence of ExtractionResults per call, which
// is exactly what the pipeline's repair-convergence and exhaustion tests
// need: attempt 1 returns an invalid candidate, attempt 2 a valid one, and
// the test asserts the worker used exactly two attempts.
//
//	extractor := mock.NewExtractor().Script(
//	    mock.Candidates(badCandidate),
//	    mock.Candidates(goodCandidate),
//	)
//
// Requests are recorded so tests can assert on accumulated repair hints.
package mock
