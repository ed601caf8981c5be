/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/codequest-gg/gameserver/config"
	"github.com/codequest-gg/gameserver/internal/game"
	"github.com/codequest-gg/gameserver/internal/mq"
)

// eventsCmd represents the events command. It tails the completion
// channel, mainly useful for wiring up downstream consumers.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Subscribe to challenge completion events",
	Long: `Subscribes to the configured message broker and logs every
challenge completion event as it arrives.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		broker, err := newEventBroker(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer broker.Close()

		log.Printf("subscribed to %s", cfg.MQ.CompletedChannel)
		return broker.Subscribe(cmd.Context(), cfg.MQ.CompletedChannel, logCompletedEvent)
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}

func newEventBroker(ctx context.Context, cfg config.Config) (*mq.MQ, error) {
	switch cfg.MQ.Backend {
	case "":
		return nil, errors.New("MQ_BACKEND is required")
	case "rabbitmq":
		client, err := mq.NewRabbitMQClient(cfg.MQ.RabbitMQ)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq: %w", err)
		}
		return mq.New(client), nil
	case "pubsub":
		client, err := mq.NewPubSubClient(ctx, cfg.MQ.PubSub)
		if err != nil {
			return nil, fmt.Errorf("pubsub: %w", err)
		}
		return mq.New(client), nil
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.MQ.Backend)
	}
}

func logCompletedEvent(ctx context.Context, msg mq.Message) error {
	var event game.CompletedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Printf("malformed event %s: %v", msg.ID, err)
		return nil
	}
	log.Printf("player %d (%s) completed %s: score=%d attempts=%d hints=%d in %.1fs",
		event.PlayerID, event.Username, event.ChallengeID,
		event.Score, event.Attempts, event.HintsUsed, event.ElapsedSeconds)
	return nil
}
