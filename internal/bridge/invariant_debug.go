//go:build imgviewdebug

package bridge

// invariant panics in debug builds so logic defects fail loudly.
func invariant(err error) {
	panic(err)
}
