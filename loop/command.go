package loop

import (
	"fmt"

	"github.com/plus3/chaintris/tetris"
)

//go:generate go tool stringer -type=Command -trimprefix=Command

// Command is one input to a session. Tick is issued by the drop timer; the
// rest come from the player.
type Command uint8

const (
	CommandStart Command = iota
	CommandMoveLeft
	CommandMoveRight
	CommandRotate
	CommandSoftDrop
	CommandTogglePause
	CommandTick
)

// Commands lists every command in declaration order.
var Commands = [...]Command{
	CommandStart,
	CommandMoveLeft,
	CommandMoveRight,
	CommandRotate,
	CommandSoftDrop,
	CommandTogglePause,
	CommandTick,
}

// ParseCommand is the inverse of Command.String.
func ParseCommand(s string) (Command, error) {
	for _, c := range Commands {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("loop: unknown command %q", s)
}

// Apply performs cmd on s and returns what the session transition
// reported: whether a move or rotation applied, whether a drop locked the
// piece, whether the pause state changed. Start always reports true.
func Apply(s *tetris.Session, cmd Command) bool {
	switch cmd {
	case CommandStart:
		s.Start()
		return true
	case CommandMoveLeft:
		return s.Move(-1)
	case CommandMoveRight:
		return s.Move(1)
	case CommandRotate:
		return s.Rotate()
	case CommandSoftDrop:
		return s.SoftDrop()
	case CommandTogglePause:
		return s.TogglePause()
	case CommandTick:
		return s.Tick()
	default:
		panic(fmt.Sprintf("loop: unknown command %d", cmd))
	}
}

func (c Command) MarshalText() ([]byte, error) {
	if int(c) >= len(Commands) {
		return nil, fmt.Errorf("loop: invalid command %d", c)
	}
	return []byte(c.String()), nil
}

func (c *Command) UnmarshalText(text []byte) error {
	parsed, err := ParseCommand(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
