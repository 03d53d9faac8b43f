package server

import (
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/redkinggame/redking/internal/room"
)

// App wires the room registry, session controller and bot driver into
// one ready-to-serve unit. Controller and driver reference each other,
// so construction goes through here.
type App struct {
	Registry   *room.Registry
	Controller *Controller
	Bots       *BotDriver
}

// NewApp builds the full session stack on a shared rng and clock. The
// clock is mockable so tests can fire bot timers deterministically.
func NewApp(sender Sender, rng *rand.Rand, clock quartz.Clock, botDelay time.Duration, logger *log.Logger) *App {
	registry := room.NewRegistry(rng)
	controller := NewController(registry, sender, rng, logger)
	bots := NewBotDriver(registry, clock, botDelay, rng, logger)
	controller.SetBots(bots)
	bots.SetController(controller)

	return &App{
		Registry:   registry,
		Controller: controller,
		Bots:       bots,
	}
}
