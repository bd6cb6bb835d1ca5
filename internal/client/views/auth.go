package views

import "fmt"

// AuthView is the login or register screen. The credentials themselves are
// prompted for by the REPL.
type AuthView struct {
	name    string
	title   string
	command string
	other   string
}

func NewLoginView() *AuthView {
	return &AuthView{name: "login", title: "Sign in to FeedbackHub", command: "login", other: "register"}
}

func NewRegisterView() *AuthView {
	return &AuthView{name: "register", title: "Create a FeedbackHub account", command: "register", other: "login"}
}

func (v *AuthView) Name() string { return v.name }

func (v *AuthView) Commands() []string {
	return []string{v.command}
}

func (v *AuthView) Render() string {
	hint := fmt.Sprintf("Type %q to continue, or \"go /%s\".", v.command, v.other)
	return join(Styles.Title.Render(v.title), Styles.Muted.Render(hint))
}

func (v *AuthView) Close() {}
