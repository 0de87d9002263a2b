package selection

import "errors"

// ErrMissingID reports a candidate without an id in the pool. It is a
// programming error in the retrieval adapter, never a ranking outcome.
var ErrMissingID = errors.New("candidate has no id")
