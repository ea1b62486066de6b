// Package todosdk is the Go client for the todolist API.
//
// Wire types in this package are shared with the server handlers, so a
// request built here is exactly what the server decodes.
//
// Browser-style clients log in with a username and password and hold the
// session cookie in the client's cookie jar:
//
//	c := todosdk.NewClient("http://localhost:8080")
//	if _, err := c.Login(ctx, "alice", "secret-password"); err != nil {
//		return err
//	}
//	boards, err := c.ListBoards(ctx, todosdk.ListParams{Ordering: "-created"})
//
// API clients exchange credentials for a bearer token instead:
//
//	tok, err := c.IssueToken(ctx, "alice", "secret-password")
//	c.SetAccessToken(tok.AccessToken)
//
// Optional request fields are pointers; use String to fill them. Nil fields
// are left out of the request body.
package todosdk
