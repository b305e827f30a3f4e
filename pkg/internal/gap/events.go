package gap

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Nc is the connection used to broadcast service events, nil when nats is not configured.
var Nc *nats.Conn

type Event struct {
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	AccountID *uint     `json:"account_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func InitializeToNats() error {
	url := viper.GetString("nats.url")
	if len(url) == 0 {
		log.Warn().Msg("No nats url configured, events will not be broadcast.")
		return nil
	}

	conn, err := nats.Connect(
		url,
		nats.Name("hypernet-community"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return fmt.Errorf("unable to connect nats: %v", err)
	}

	Nc = conn
	log.Info().Str("url", conn.ConnectedUrl()).Msg("Connected to nats.")

	return nil
}

func EventSubject(action string) string {
	prefix := viper.GetString("nats.subject_prefix")
	if len(prefix) == 0 {
		prefix = "community"
	}
	return prefix + "." + action
}

func AddEvent(action, target string, account *uint) error {
	event := Event{
		Action:    action,
		Target:    target,
		AccountID: account,
		CreatedAt: time.Now(),
	}

	if Nc == nil {
		log.Debug().Str("action", action).Str("target", target).Msg("Skipped broadcasting event...")
		return nil
	}

	data, err := jsoniter.Marshal(event)
	if err != nil {
		return err
	}
	if err := Nc.Publish(EventSubject(action), data); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("An error occurred when broadcasting event...")
		return err
	}

	return nil
}

func Shutdown() {
	if Nc != nil {
		_ = Nc.Drain()
	}
}
