package internal

// Handler declares routes on a router.
//
//	func (h *Listings) Routes(r hireloop.Router) {
//		r.GET("/api/listings", h.list)
//		r.POST("/api/listings", h.create, middlewares.BearerAuth(tokens))
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc handles a request. A returned error is passed to the
// application's ErrorHandler unless a response has already been written.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc.
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler renders errors returned from handlers.
type ErrorHandler func(Context, error) error
