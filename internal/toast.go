package internal

// Toaster surfaces short user-visible messages. Success and info toasts are
// feedback; error toasts are raised only for user-initiated actions.
type Toaster interface {
	Success(title, description string)
	Info(title, description string)
	Error(title, description string)
}

// NopToaster drops every toast.
type NopToaster struct{}

func (NopToaster) Success(string, string) {}
func (NopToaster) Info(string, string)    {}
func (NopToaster) Error(string, string)   {}
