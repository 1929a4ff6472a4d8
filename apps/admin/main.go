package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/duka/core"
	"github.com/trezcool/duka/core/ebook"
	"github.com/trezcool/duka/storage/database"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	var db *sql.DB
	cli := commandLine{
		conf:      conf,
		validator: ebook.NewValidator(validate, translator),
		openDB: func() (*sql.DB, error) {
			if err := database.CreateIfNotExist(conf); err != nil {
				return nil, err
			}
			var err error
			db, err = database.Open(conf)
			return db, err
		},
		out: os.Stdout,
	}

	err := cli.run(os.Args)
	if db != nil {
		if cErr := db.Close(); cErr != nil {
			logger.Printf("closing database: %v", cErr)
		}
	}
	if err != nil {
		if err != errHelp {
			logger.Printf("error: %s", err)
		}
		os.Exit(1)
	}
}
