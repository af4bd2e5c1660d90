package database

import "testing"

func TestRebind(t *testing.T) {
	cases := []struct{ in, want string }{
		{`SELECT 1`, `SELECT 1`},
		{`SELECT * FROM jobs WHERE id = ? AND source = ?`, `SELECT * FROM jobs WHERE id = $1 AND source = $2`},
		{`SELECT * FROM jobs WHERE title LIKE ? ESCAPE '!'`, `SELECT * FROM jobs WHERE title LIKE $1 ESCAPE '!'`},
		{`UPDATE users SET city = '?' WHERE id = ?`, `UPDATE users SET city = '?' WHERE id = $1`},
	}
	for _, tc := range cases {
		if got := Rebind(tc.in); got != tc.want {
			t.Fatalf("Rebind(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
