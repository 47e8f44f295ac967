package chat

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Messages are the fixed texts the bot speaks on its own.
type Messages struct {
	Greeting     string `yaml:"greeting"`
	GenericError string `yaml:"generic_error"`
	// FlightSummary accepts the {count} and {destination} placeholders.
	FlightSummary   string `yaml:"flight_summary"`
	AllDestinations string `yaml:"all_destinations"`
}

func DefaultMessages() Messages {
	return Messages{
		Greeting:        "¡Hola! Soy tu asistente virtual. ¿En qué puedo ayudarte?",
		GenericError:    "Hubo un error al procesar tu solicitud.",
		FlightSummary:   "Se encontraron {count} vuelos para el destino {destination}.",
		AllDestinations: "todos los destinos",
	}
}

// LoadMessages reads bot texts from a YAML file. A missing file yields the
// defaults; keys absent from the file keep their default value.
func LoadMessages(path string) (Messages, error) {
	msgs := DefaultMessages()
	if path == "" {
		return msgs, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return msgs, nil
		}
		return msgs, err
	}
	var loaded Messages
	if err := yaml.Unmarshal(b, &loaded); err != nil {
		return msgs, err
	}
	if loaded.Greeting != "" {
		msgs.Greeting = loaded.Greeting
	}
	if loaded.GenericError != "" {
		msgs.GenericError = loaded.GenericError
	}
	if loaded.FlightSummary != "" {
		msgs.FlightSummary = loaded.FlightSummary
	}
	if loaded.AllDestinations != "" {
		msgs.AllDestinations = loaded.AllDestinations
	}
	return msgs, nil
}
