// Command generate-secrets prints a fresh signing secret for the customer
// identity token. Run it once per environment and put the output in the
// environment configuration; rotating the secret invalidates every issued
// cookie.
package main

import (
	"fmt"
	"log"

	"github.com/funtravel/tours-backend/internal/utils"
)

func main() {
	secret, err := utils.GenerateSecret(32) // 256-bit
	if err != nil {
		log.Fatalf("Failed to generate secret: %v", err)
	}

	fmt.Println("Add this to your .env file or deployment secrets:")
	fmt.Println()
	fmt.Printf("CUSTOMER_TOKEN_SECRET=%s\n", secret)
	fmt.Println()
	fmt.Println("Never commit this value to version control.")
}
