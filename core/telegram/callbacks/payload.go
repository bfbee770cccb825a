package callbacks

import (
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// PayloadParts splits the callback payload into parts using the given separator.
func PayloadParts(c tele.Context, sep string) ([]string, error) {
	p := CallbackPayload(c)
	if p == "" {
		return nil, strconv.ErrSyntax
	}
	return strings.Split(p, sep), nil
}

// PayloadStringInt parses a callback payload like "abc|3" into a string
// and an int.
func PayloadStringInt(c tele.Context, sep string) (string, int, error) {
	parts, err := PayloadParts(c, sep)
	if err != nil {
		return "", 0, err
	}
	if len(parts) != 2 {
		return "", 0, strconv.ErrSyntax
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, err
	}
	return parts[0], n, nil
}
