// SPDX-License-Identifier: GPL-3.0-or-later
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

type Account struct {
	Server   string
	Email    string
	Password string
}

type Credentials struct {
	Source      Account
	Destination Account
}

// ReadCredentials loads the accounts of both servers from the environment.
// Values in envFile take precedence, a missing envFile is not an error.
func ReadCredentials(envFile string) (*Credentials, error) {
	if envFile != "" {
		_, err := os.Stat(envFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("could not read env file: %w", err)
		default:
			err = godotenv.Overload(envFile)
			if err != nil {
				return nil, fmt.Errorf("could not read env file: %w", err)
			}
		}
	}

	source, err := readAccount("SOURCE")
	if err != nil {
		return nil, err
	}

	destination, err := readAccount("DEST")
	if err != nil {
		return nil, err
	}

	return &Credentials{
		Source:      source,
		Destination: destination,
	}, nil
}

func readAccount(prefix string) (Account, error) {
	account := Account{
		Server:   os.Getenv(prefix + "_IMAP_SERVER"),
		Email:    os.Getenv(prefix + "_EMAIL"),
		Password: os.Getenv(prefix + "_PASSWORD"),
	}

	if err := validateNonEmptyStringField(account.Server, prefix+"_IMAP_SERVER must not be empty, set to host[:port] of the imap server"); err != nil {
		return Account{}, err
	}

	if err := validateNonEmptyStringField(account.Email, prefix+"_EMAIL must not be empty, set to the login on the imap server"); err != nil {
		return Account{}, err
	}

	if err := validateNonEmptyStringField(account.Password, prefix+"_PASSWORD must not be empty, set to the password of "+prefix+"_EMAIL"); err != nil {
		return Account{}, err
	}

	return account, nil
}
