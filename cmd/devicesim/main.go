package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/viaphoton/e2e-harness/devicesim"
)

// Input ...
type Input struct {
	BrokerURL string          `env:"MQTT_BROKER_URL,required"`
	Username  string          `env:"MQTT_USERNAME,required"`
	Password  stepconf.Secret `env:"MQTT_PASSWORD,required"`
	Verbose   bool            `env:"VERBOSE"`
}

func main() {
	if err := newRootCommand(log.NewLogger()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(logger log.Logger) *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           "devicesim",
		Short:         "Publishes simulated floor device messages to the MQTT broker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the configuration is parsed")

	var publish publishFunc = func(cmd *cobra.Command, build func(at time.Time) (devicesim.Publication, error)) error {
		pub, err := build(time.Now())
		if err != nil {
			logger.Errorf("%s", err)
			return err
		}

		publisher, err := createPublisher(logger, envFile)
		if err != nil {
			logger.Errorf("%s", err)
			return err
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if err := publisher.Publish(ctx, pub); err != nil {
			logger.Errorf("%s", err)
			return err
		}
		return nil
	}

	cmd.AddCommand(
		trolleyCommand(publish),
		operatorCommand(publish),
		deviceStatusCommand(publish),
		rfidCommand(publish),
	)

	return cmd
}

type publishFunc func(cmd *cobra.Command, build func(at time.Time) (devicesim.Publication, error)) error

func trolleyCommand(publish publishFunc) *cobra.Command {
	var (
		status, stationID, trolleyID int16
		barcode                      string
	)

	cmd := &cobra.Command{
		Use:   "trolley",
		Short: "Scans a trolley at a station",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return publish(cmd, func(at time.Time) (devicesim.Publication, error) {
				return devicesim.TrolleyState(at, status, stationID, trolleyID, barcode)
			})
		},
	}
	cmd.Flags().Int16Var(&status, "status", 0, "trolley status")
	cmd.Flags().Int16Var(&stationID, "station", 0, "station id")
	cmd.Flags().Int16Var(&trolleyID, "trolley", 0, "trolley id")
	cmd.Flags().StringVar(&barcode, "barcode", "", "scanned barcode")
	_ = cmd.MarkFlagRequired("station")
	_ = cmd.MarkFlagRequired("trolley")

	return cmd
}

func operatorCommand(publish publishFunc) *cobra.Command {
	var (
		state    int8
		userID   uint16
		deviceID string
	)

	cmd := &cobra.Command{
		Use:   "operator",
		Short: "Logs an operator in or out of a device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return publish(cmd, func(at time.Time) (devicesim.Publication, error) {
				return devicesim.OperatorState(at, state, userID, deviceID), nil
			})
		},
	}
	cmd.Flags().Int8Var(&state, "state", 0, "operator state")
	cmd.Flags().Uint16Var(&userID, "user", 0, "user id")
	cmd.Flags().StringVar(&deviceID, "device", "", "device id")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("device")

	return cmd
}

func deviceStatusCommand(publish publishFunc) *cobra.Command {
	var deviceID, status string

	cmd := &cobra.Command{
		Use:   "device-status",
		Short: "Publishes the retained status of a device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return publish(cmd, func(time.Time) (devicesim.Publication, error) {
				return devicesim.DeviceState(deviceID, status)
			})
		},
	}
	cmd.Flags().StringVar(&deviceID, "device", "", "device id")
	cmd.Flags().StringVar(&status, "status", "", "device status")
	_ = cmd.MarkFlagRequired("device")
	_ = cmd.MarkFlagRequired("status")

	return cmd
}

func rfidCommand(publish publishFunc) *cobra.Command {
	var deviceID, state string

	cmd := &cobra.Command{
		Use:   "rfid",
		Short: "Raises (ar) or clears (ac) the RFID error of a device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return publish(cmd, func(at time.Time) (devicesim.Publication, error) {
				return devicesim.RFIDError(at, deviceID, devicesim.RFIDState(state))
			})
		},
	}
	cmd.Flags().StringVar(&deviceID, "device", "", "device id")
	cmd.Flags().StringVar(&state, "state", string(devicesim.RFIDErrorRaised), "ar or ac")
	_ = cmd.MarkFlagRequired("device")

	return cmd
}

func createPublisher(logger log.Logger, envFile string) (devicesim.Publisher, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warnf("Failed to load %s: %s", envFile, err)
	}

	var input Input
	if err := stepconf.NewInputParser(env.NewRepository()).Parse(&input); err != nil {
		return nil, err
	}
	stepconf.Print(input)
	logger.EnableDebugLog(input.Verbose)

	return devicesim.NewPublisher(logger, devicesim.Config{
		BrokerURL: input.BrokerURL,
		Username:  input.Username,
		Password:  string(input.Password),
	}), nil
}
