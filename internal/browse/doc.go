// Package browse orchestrates the movie fetches behind the browse screen.
//
// A Controller owns the query, result and status state. It is driven from
// a single goroutine (the bubbletea Update loop): triggers such as Settle
// and SelectCategory return the Request to run, Fetch performs it off the
// loop without touching state, and Apply folds the Result back in. Every
// Request carries a sequence number and only the result of the most
// recently issued request is applied.
package browse
