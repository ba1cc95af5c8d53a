package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := createCliApp().Run(os.Args); err != nil {
		logrus.WithError(err).Error("landsatlst failed")
		os.Exit(1)
	}
}
