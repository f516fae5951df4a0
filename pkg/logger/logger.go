package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// InfoLogger va ErrorLogger butun ilova bo'ylab ishlatiladi.
var (
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

// Init loggerlarni sozlash
func Init() {
	InfoLogger = logrus.New()
	InfoLogger.SetOutput(os.Stdout)
	InfoLogger.SetLevel(logrus.InfoLevel)
	InfoLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	ErrorLogger = logrus.New()
	ErrorLogger.SetOutput(os.Stderr)
	// Printf/Println info darajasida yozadi, shuning uchun darajani pasaytirmaymiz
	ErrorLogger.SetLevel(logrus.InfoLevel)
	ErrorLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}
