// Command aresctl is the operator CLI for the Ares Club backend.
package main

import (
	"aresclub/aresclub/config"
	"aresclub/aresclub/services/auth"
	"aresclub/aresclub/sources/psql"
	"aresclub/aresclub/sources/psql/dao"
	"aresclub/aresclub/utils/color"
	"aresclub/aresclub/utils/logging"
	"aresclub/aresclub/utils/types"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logging.InitLogger(cfg.LogDir)
	defer logging.Sync()

	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	var err error
	switch args[0] {
	case "migrate":
		err = migrate(cfg)
	case "tail":
		if len(args) < 2 {
			usage()
			os.Exit(1)
		}
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		err = tail(ctx, args[1])
		stop()
	case "say":
		if len(args) < 4 {
			usage()
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = say(ctx, args[1], args[2], args[3])
		cancel()
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, color.ColorError(err.Error()))
		logging.ErrorLogger.Error("aresctl failed", zap.String("command", args[0]), zap.Error(err))
		logging.Sync()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("aresctl usage:")
	fmt.Println("  aresctl migrate                       # create tables and seed the admin account")
	fmt.Println("  aresctl tail <ws-url>                 # print live chat messages")
	fmt.Println("  aresctl say <ws-url> <name> <message> # post a visitor message")
}

func migrate(cfg config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	_, created, err := auth.SeedAdmin(ctx, dao.NewUserDAO(db.DB), auth.SeedAccount{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	})
	if err != nil {
		return err
	}
	if created {
		fmt.Println(color.ColorInfo("admin account created: " + cfg.AdminUsername))
	} else {
		fmt.Println(color.ColorInfo("admin account already present: " + cfg.AdminUsername))
	}
	fmt.Println(color.ColorInfo("tables created/verified"))
	return nil
}

func tail(ctx context.Context, url string) error {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.CloseNow()

	for {
		var ev types.InboundEvent
		if err := wsjson.Read(ctx, conn, &ev); err != nil {
			if errors.Is(err, context.Canceled) || websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				return nil
			}
			return err
		}
		switch ev.Name {
		case types.EventConnected:
			var p types.ConnectedPayload
			if json.Unmarshal(ev.Data, &p) == nil {
				fmt.Println(color.ColorInfo(p.Message))
			}
		case types.EventNewMessage:
			var m types.MessagePayload
			if err := json.Unmarshal(ev.Data, &m); err != nil {
				continue
			}
			fmt.Println(color.ChatLine(m))
		case types.EventError:
			fmt.Println(color.ColorError(string(ev.Data)))
		}
	}
}

// say posts one visitor message and waits for its broadcast.
func say(ctx context.Context, url, name, message string) error {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	err = wsjson.Write(ctx, conn, types.Event{
		Name: types.EventUserMessage,
		Data: types.UserMessagePayload{Username: name, Message: message},
	})
	if err != nil {
		return err
	}
	for {
		var ev types.InboundEvent
		if err := wsjson.Read(ctx, conn, &ev); err != nil {
			return err
		}
		if ev.Name != types.EventNewMessage {
			continue
		}
		var m types.MessagePayload
		if json.Unmarshal(ev.Data, &m) == nil && m.Message == message {
			fmt.Println(color.ChatLine(m))
			return nil
		}
	}
}
