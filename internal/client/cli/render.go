package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/hireportal/internal/client/models"
	"github.com/dmitrijs2005/hireportal/internal/client/notify"
	"github.com/dmitrijs2005/hireportal/internal/client/validation"
)

func renderDashboard(w io.Writer, u models.User) {
	fmt.Fprintf(w, "[%s] %s <%s>\n", u.Initials(), u.DisplayName(), u.Email)
	fmt.Fprintf(w, "Welcome back, %s!\n", firstOr(u.FirstName, u.Email))
	fmt.Fprintf(w, "  id:      %s\n", u.ShortID())
	if u.Phone != nil && *u.Phone != "" {
		fmt.Fprintf(w, "  phone:   %s\n", *u.Phone)
	}
	if u.Status != "" {
		fmt.Fprintf(w, "  status:  %s\n", u.Status)
	}
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(w, "  member since %s\n", u.CreatedAt.Format("2006-01-02"))
	}
}

func renderFieldErrors(w io.Writer, errs []*validation.FieldError) {
	for _, fe := range errs {
		fmt.Fprintf(w, "  %s: %s\n", label(fe.Field), fe.Message)
	}
}

func renderNotice(w io.Writer, n notify.Notification) {
	fmt.Fprintf(w, "[%s] %s\n", n.Kind, n.Message)
}

func renderStrength(w io.Writer, s validation.Strength) {
	if s.Label == "" {
		return
	}
	const width = 12
	filled := s.Percent * width / 100
	fmt.Fprintf(w, "Password strength: [%s%s] %s\n",
		strings.Repeat("#", filled), strings.Repeat(".", width-filled), s.Label)
}

func renderExpiry(w io.Writer, p models.TokenPair, now time.Time) {
	exp, err := p.AccessExpiry()
	if err != nil {
		fmt.Fprintln(w, "  access token: expiry unknown")
		return
	}
	if p.AccessExpired(now) {
		fmt.Fprintf(w, "  access token: expired at %s\n", exp.Local().Format(time.RFC3339))
		return
	}
	fmt.Fprintf(w, "  access token: valid for %s\n", exp.Sub(now).Round(time.Second))
}

var fieldLabels = map[validation.Field]string{
	validation.FieldEmail:     "Email",
	validation.FieldPassword:  "Password",
	validation.FieldFirstName: "First name",
	validation.FieldLastName:  "Last name",
	validation.FieldPhone:     "Phone",
}

func label(f validation.Field) string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

func firstOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
