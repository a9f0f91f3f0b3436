// Package shared holds helpers used across the toolkit packages.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// log output and fixtures for synthetic samples, output records and
// evaluation sets:
//
//	func TestSomething(t *testing.T) {
//	    logger, handler := testutil.NewTestLogger(t)
//	    path := testutil.WriteJSON(t, t.TempDir(), "sample.json", testutil.MinimalSample())
//	    ...
//	    testutil.AssertNoErrors(t, handler)
//	}
package shared
