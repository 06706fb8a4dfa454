package http

import (
	"fmt"
	"net/http"
	"strconv"

	apperrors "nestbay/pkg/errors"
)

// ActorHeader carries the authenticated user ID resolved by the edge
// gateway. Services trust it; authentication itself happens upstream.
const ActorHeader = "X-Actor-ID"

func Actor(r *http.Request) string {
	return r.Header.Get(ActorHeader)
}

func QueryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.InvalidInput(fmt.Sprintf("invalid %s parameter: %s", name, raw))
	}
	return n, nil
}
