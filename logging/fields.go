package logging

import (
	"strconv"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/zeu5/pacman-rl/pacman"
)

// Field applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

func RunID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("run_id", id)
	}
}

func Episode(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("episode", n)
	}
}

func Exploration(v float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("exploration", strconv.FormatFloat(v, 'g', -1, 64))
	}
}

func Reward(r float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("reward", strconv.FormatFloat(r, 'g', -1, 64))
	}
}

func TableSize(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("table_size", n)
	}
}

// State logs the state hash.
func State(s pacman.State) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("state", s.Hash())
	}
}

func Action(a pacman.Action) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("action", a.String())
	}
}

func Path(p string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("path", p)
	}
}

// ErrorField adds an error; nil errors are skipped.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

func Int(key string, v int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int(key, v)
	}
}

func Float64(key string, v float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, strconv.FormatFloat(v, 'g', -1, 64))
	}
}

func Str(key, v string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, v)
	}
}

func Bool(key string, v bool) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Bool(key, v)
	}
}
