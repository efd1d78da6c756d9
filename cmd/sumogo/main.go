package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/cjeanneret/SumoGo/internal/config"
	"github.com/cjeanneret/SumoGo/internal/debug"
	"github.com/cjeanneret/SumoGo/internal/hw/gamepad"
	"github.com/cjeanneret/SumoGo/internal/hw/gpio"
	"github.com/cjeanneret/SumoGo/internal/hw/motor"
	"github.com/cjeanneret/SumoGo/internal/logic/drive"
	"github.com/cjeanneret/SumoGo/internal/web"
)

func main() {
	// CLI flags
	webPort := &webPortFlag{defaultPort: 8080}
	flag.Var(webPort, "web", "start web console on port; -web= for default 8080, -web 8980 for custom port")
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	mock := flag.Bool("mock", false, "force mock GPIO and mock gamepad (development on PC)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	if *mock {
		cfg.Defaults.MockGPIO = true
		cfg.Defaults.MockGamepad = true
	}

	// Initialize debug system
	debug.Init(cfg.Defaults.DebugLevel)
	debug.Section("Initialization")
	debug.Value("Config path", *cfgPath)
	debug.Value("Debug level", cfg.Defaults.DebugLevel)
	debug.Value("Mock GPIO", cfg.Defaults.MockGPIO)
	debug.Value("Mock gamepad", cfg.Defaults.MockGamepad)

	// Initialize GPIO driver
	debug.Step(1, "Initializing GPIO driver")
	gpioDriver, err := gpio.NewDriver(cfg.Defaults.MockGPIO)
	if err != nil {
		log.Fatalf("init GPIO failed: %v", err)
	}
	defer func() {
		if err := gpioDriver.Close(); err != nil {
			log.Printf("closing GPIO driver failed: %v", err)
		}
	}()

	// Initialize drive motors
	debug.Step(2, "Initializing drive motors")
	leftMotor := motor.NewMotor(gpioDriver, motor.Config{
		DirPin:   cfg.LeftMotor.DirPin,
		PwmPin:   cfg.LeftMotor.PwmPin,
		Reversed: cfg.LeftMotor.Reversed,
	})
	debug.PrintStruct("Left motor config", cfg.LeftMotor)
	rightMotor := motor.NewMotor(gpioDriver, motor.Config{
		DirPin:   cfg.RightMotor.DirPin,
		PwmPin:   cfg.RightMotor.PwmPin,
		Reversed: cfg.RightMotor.Reversed,
	})
	debug.PrintStruct("Right motor config", cfg.RightMotor)
	wheels := motor.NewDrive(leftMotor, rightMotor)

	// Initialize gamepad link
	debug.Step(3, "Initializing gamepad link")
	link := newLinkFromConfig(cfg)
	defer link.Close()

	debug.Step(4, "Creating tick controller")
	ctrl := drive.NewController(cfg, link, wheels)

	if port := webPort.port(); port > 0 {
		webAddr := fmt.Sprintf(":%d", port)
		broadcaster := web.NewStatusBroadcaster()
		debug.SetOutput(io.MultiWriter(os.Stdout, web.BroadcastWriter(broadcaster)))

		srv := web.NewServer(webAddr, broadcaster, ctrl, cfg)
		go func() {
			if err := srv.Run(ctx); err != nil {
				log.Printf("web console: %v", err)
			}
		}()
	}

	debug.Section("Starting Control Loop")
	if err := ctrl.Run(ctx); err != nil {
		log.Fatalf("control loop: %v", err)
	}
}

// newLinkFromConfig selects a gamepad link implementation based on configuration.
func newLinkFromConfig(cfg *config.Config) gamepad.Link {
	if cfg.Defaults.MockGamepad {
		debug.Info("Using MOCK gamepad link (development mode)")
		return gamepad.NewMockLink()
	}
	debug.Value("MQTT broker", cfg.Gamepad.Broker)
	debug.Value("Gamepad topic", cfg.Gamepad.Topic)
	return gamepad.NewMQTTLink(cfg.Gamepad)
}

// webPortFlag implements flag.Value for -web: 0 = disabled, -web= or -web 8080 → 8080, -web 8980 → 8980.
type webPortFlag struct {
	val         int
	defaultPort int
}

func (w *webPortFlag) String() string {
	if w.val == 0 {
		return "0"
	}
	return strconv.Itoa(w.val)
}

func (w *webPortFlag) Set(s string) error {
	if s == "" {
		w.val = w.defaultPort
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v <= 0 || v > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", v)
	}
	w.val = v
	return nil
}

func (w *webPortFlag) port() int { return w.val }
