package card

// Strings renders a hand for logs and terminal output.
func Strings(cs []Card) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.String())
	}
	return out
}
