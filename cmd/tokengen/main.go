// Command tokengen signs a token for a user, for local clients and manual testing.
// The relay never issues tokens itself.
package main

import (
	"chat-relay/auth"
	"chat-relay/domain"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	userID := flag.String("user", "", "User id carried by the token")
	roles := flag.String("roles", "", "Comma separated roles")
	duration := flag.Duration("duration", 24*time.Hour, "Token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" || *userID == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET and -user are required")
		os.Exit(2)
	}

	var roleList []string
	if *roles != "" {
		roleList = strings.Split(*roles, ",")
	}
	token, err := auth.NewTokenManager(secret, *duration).GenerateToken(domain.UserID(*userID), roleList)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token)
}
