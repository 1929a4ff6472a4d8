package core

type (
	// Logger logs messages along with optional args.
	// expected args fmt: error, map[string]interface{}, Actor
	Logger interface {
		Debug(msg string, args ...interface{})
		Info(msg string, args ...interface{})
		Warn(msg string, args ...interface{})
		Error(msg string, args ...interface{})
		Fatal(msg string, args ...interface{})
	}

	// Actor identifies the authenticated collaborator behind a request.
	Actor struct {
		ID      string
		Name    string
		Email   string
		IsAdmin bool
	}
)
