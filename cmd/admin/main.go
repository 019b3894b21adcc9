package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"log"

	"github.com/Bhagya-2005/ai-study-mentor/config"
	"github.com/Bhagya-2005/ai-study-mentor/db"
	"golang.org/x/crypto/bcrypt"
)

/*
Maintenance tasks for the study mentor database.

1. > ./admin -cmd=pepper
CPjaot8hYLXpm4xIaXHWsQKJWkelY3msP6AbR8wYmrE=
[put this in .config as "pepper" before any user signs up]
2. > ./admin -cmd=adduser -email=user@site.com -password=fancy-password
3. > ./admin -cmd=history -user=1
4. > ./admin -cmd=clearhistory -user=1
*/

func main() {
	var (
		cmd        string
		configPath string
		password   string
		email      string
		userID     int64
	)
	flag.StringVar(&cmd, "cmd", "", "The command to execute: pepper, password, adduser, history, clearhistory. [Required]")
	flag.StringVar(&configPath, "config", ".config", "Path to the JSON config file.")
	flag.StringVar(&password, "password", "", "The password to hash or to give the user. [Required when cmd=password or cmd=adduser]")
	flag.StringVar(&email, "email", "", "The email of the user. [Required when cmd=adduser]")
	flag.Int64Var(&userID, "user", 0, "The id of the user. [Required when cmd=history or cmd=clearhistory]")
	flag.Parse()

	switch cmd {
	case "pepper":
		generatePepper()
	case "password":
		if password == "" {
			flag.Usage()
			return
		}
		hashPassword(loadConfig(configPath).Pepper, password)
	case "adduser":
		if email == "" || password == "" {
			flag.Usage()
			return
		}
		withDB(configPath, func(cfg config.Config, d *db.DB) {
			u, err := db.NewUserStore(d, cfg.Pepper).Create(context.Background(), email, password)
			if err != nil {
				log.Fatal(err)
			}
			fmt.Printf("created user %d (%s)\n", u.ID, u.Email)
		})
	case "history":
		if userID == 0 {
			flag.Usage()
			return
		}
		withDB(configPath, func(cfg config.Config, d *db.DB) {
			entries, err := db.NewHistoryStore(d).List(context.Background(), userID)
			if err != nil {
				log.Fatal(err)
			}
			for _, e := range entries {
				fmt.Printf("#%d\nUser: %s\nAI: %s\n---\n", e.ID, e.Input, e.Output)
			}
		})
	case "clearhistory":
		if userID == 0 {
			flag.Usage()
			return
		}
		withDB(configPath, func(cfg config.Config, d *db.DB) {
			if err := db.NewHistoryStore(d).Clear(context.Background(), userID); err != nil {
				log.Fatal(err)
			}
			fmt.Printf("cleared history of user %d\n", userID)
		})
	default:
		flag.Usage()
	}
}

func loadConfig(path string) config.Config {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func withDB(configPath string, fn func(cfg config.Config, d *db.DB)) {
	cfg := loadConfig(configPath)
	d := db.NewDB(cfg.Database.Path)
	if err := d.Open(); err != nil {
		log.Fatal(err)
	}
	defer d.Close()
	fn(cfg, d)
}

func generatePepper() {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatal(err)
	}
	fmt.Println(base64.URLEncoding.EncodeToString(b))
}

func hashPassword(pepper, password string) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password+pepper), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(hashedBytes))
}
