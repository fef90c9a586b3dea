package symbol

// Frequently used symbols, interned once at package init.
var (
	// AnonRow is the interned symbol "_" (the teacher's "_" row binding
	// name). Nothing in this module binds or looks it up.
	AnonRow = Intern("_")

	// Self is the interned symbol "this". A method call desugared from
	// `lhs.f(args)` passes the receiver as f's first argument; the receiver
	// is not bound under this name.
	Self = Intern("this")
)
