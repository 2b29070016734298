package main

// --------------------------------------------------------------------------
//
//	Gurux Ltd
//
// Filename:        $HeadURL$
//
// Version:         $Revision$,
//
//	$Date$
//	$Author$
//
// # Copyright (c) Gurux Ltd
//
// ---------------------------------------------------------------------------
//
//	DESCRIPTION
//
// This file is a part of Gurux Device Framework.
//
// Gurux Device Framework is Open Source software; you can redistribute it
// and/or modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2 of the License.
// Gurux Device Framework is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU General Public License for more details.
//
// More information of Gurux products: https://www.gurux.org
//
// This code is licensed under the GNU General Public License v2.
// Full text may be retrieved at http://www.gnu.org/licenses/gpl-2.0.txt
// ---------------------------------------------------------------------------

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Gurux/gxcommon-go"
	"github.com/Gurux/gxuwb-go"
	"github.com/Gurux/gxuwb-go/config"
	"github.com/Gurux/gxuwb-go/device"
	"github.com/Gurux/gxuwb-go/logging"
	"github.com/Gurux/gxuwb-go/monitor"
	"github.com/Gurux/gxuwb-go/msgqueue"
	"github.com/Gurux/gxuwb-go/tlv"
	"github.com/Gurux/gxuwb-go/uci"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

type options struct {
	configPath string
	devicePath string
	trace      string
	lang       string
	keys       []string
	duration   time.Duration
}

// CurrentLanguage returns the language of the LANG environment variable.
func CurrentLanguage() language.Tag {
	langEnv := os.Getenv("LANG")
	if langEnv == "" {
		return language.AmericanEnglish
	}
	langEnv = strings.Split(langEnv, ".")[0]
	tag, err := language.Parse(langEnv)
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}

// session is an open transport with its client goroutine.
type session struct {
	cfg    config.Config
	tml    *gxuwb.GXTml
	uci    *gxuwb.GXUci
	vendor *config.Vendor
	cancel context.CancelFunc
	done   chan struct{}
}

func loadConfig(o *options) (config.Config, error) {
	cfg := config.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, err
		}
	}
	if o.devicePath != "" {
		cfg.Device.Path = o.devicePath
	}
	if o.trace != "" {
		cfg.Transport.Trace = o.trace
	}
	if o.lang != "" {
		cfg.Transport.Language = o.lang
	}
	return cfg, config.Validate(cfg)
}

func open(o *options) (*session, error) {
	cfg, err := loadConfig(o)
	if err != nil {
		return nil, err
	}
	logging.Apply(cfg.Logging())

	opener := device.Opener(device.OpenCharDev)
	if cfg.Device.Backend == config.BackendSPIDev {
		opener = device.SPIOpener(device.SPIConfig{
			ClockHz:   cfg.Device.SPIClockHz,
			IrqPin:    cfg.Device.IrqPin,
			EnablePin: cfg.Device.EnablePin,
		})
	}
	tml := gxuwb.NewGXTml(opener)
	tml.WriteWaitTimeout = cfg.Transport.WriteWaitTimeout
	tml.ChipResetDelay = cfg.Transport.ChipResetDelay
	tml.ReadErrorLimit = cfg.Transport.ReadErrorLimit
	tag := CurrentLanguage()
	if o.lang != "" || o.configPath != "" {
		tag, _ = cfg.LanguageTag()
	}
	tml.Localize(tag)
	tl, err := cfg.TraceLevel()
	if err != nil {
		return nil, err
	}
	if err = tml.SetTrace(tl); err != nil {
		return nil, err
	}
	tml.SetOnTrace(func(_ *gxuwb.GXTml, e gxcommon.TraceEventArgs) {
		fmt.Printf("Trace: %s\n", e.String())
	})
	tml.SetOnError(func(_ *gxuwb.GXTml, err error) {
		fmt.Fprintln(os.Stderr, "error:", err)
	})
	tml.SetOnStateChange(func(_ *gxuwb.GXTml, e gxcommon.MediaStateEventArgs) {
		fmt.Printf("Media state change : %s\n", e.State().String())
	})

	q := msgqueue.NewQueue(cfg.Transport.QueueSize)
	q.SetOnEvent(func(e msgqueue.Event) {
		fmt.Printf("Event: %s %s\n", e.Code, e.Status)
	})
	ctx, cancel := context.WithCancel(context.Background())
	s := &session{cfg: cfg, tml: tml, cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(s.done)
		if err := q.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "queue:", err)
		}
	}()
	if err = tml.Init(cfg.Device.Path, q); err != nil {
		cancel()
		<-s.done
		return nil, err
	}
	if cfg.Vendor.Path != "" {
		if s.vendor, err = config.LoadVendor(cfg.Vendor.Path); err != nil {
			s.close()
			return nil, err
		}
		if cc := cfg.Vendor.CountryCode; cc != "" {
			if err = s.vendor.SetCountryCode(cc); err != nil {
				s.close()
				return nil, err
			}
		}
	}
	mon := monitor.InitMonitor()
	mon.SetRecoveryHandler(func(reason string) {
		fmt.Fprintln(os.Stderr, "device needs recovery:", reason)
	})
	s.uci = gxuwb.NewGXUci(tml, mon)
	s.uci.Timeout = cfg.Transport.CommandTimeout
	return s, nil
}

func (s *session) close() {
	if s.uci != nil {
		s.uci.Stop()
	}
	if err := s.tml.Shutdown(); err != nil {
		fmt.Fprintln(os.Stderr, "shutdown failed:", err)
	}
	s.cancel()
	<-s.done
	monitor.CleanupMonitor()
}

func printResponse(name string, rsp []byte) {
	fmt.Printf("%s: %s\n", name, uci.FormatPacket(uci.DirectionDeviceToHost, rsp))
	st, ok := uci.ResponseStatus(rsp)
	if !ok {
		return
	}
	fmt.Printf("  status: %s\n", st)
	payload, err := uci.Payload(rsp)
	if err != nil || len(payload) < 2 {
		return
	}
	// Capability responses carry a TLV list after the status and count.
	if name == "caps" {
		values, err := tlv.Decode(nil, payload[2:])
		if err != nil {
			fmt.Fprintln(os.Stderr, "  caps:", err)
		}
		for tag, v := range values {
			fmt.Printf("  0x%02X = % X\n", tag, v)
		}
	}
}

func infoCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Read device information and capabilities",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(o)
			if err != nil {
				return err
			}
			defer s.close()
			if err = s.uci.Start(); err != nil {
				return err
			}
			rsp, err := s.uci.SendCommand(uci.GroupCore, uci.OidCoreDeviceInfo, nil, 0)
			if err != nil {
				return err
			}
			printResponse("device info", rsp)
			if rsp, err = s.uci.SendCommand(uci.GroupCore, uci.OidCoreGetCapsInfo, nil, 0); err != nil {
				return err
			}
			printResponse("caps", rsp)
			for _, k := range o.keys {
				if s.vendor == nil {
					return errors.New("--key needs vendor.path in the config file")
				}
				p, ok := s.vendor.Find(k)
				if !ok {
					fmt.Printf("%s: not set\n", k)
					continue
				}
				fmt.Printf("%s: %s\n", k, p)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&o.keys, "key", nil, "Vendor configuration keys to print.")
	return cmd
}

func resetCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Power cycle the UWB chip",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(o)
			if err != nil {
				return err
			}
			defer s.close()
			return s.tml.ChipReset()
		},
	}
}

func listenCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Print notifications until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(o)
			if err != nil {
				return err
			}
			defer s.close()
			s.uci.SetOnNotification(func(_ *gxuwb.GXUci, msg *uci.Message) {
				fmt.Printf("%s: % X\n", msg, msg.Payload)
			})
			if err = s.uci.Start(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if o.duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, o.duration)
				defer cancel()
			}
			<-ctx.Done()
			fmt.Printf("Received %d bytes, sent %d bytes\n", s.tml.GetBytesReceived(), s.tml.GetBytesSent())
			return s.tml.ReadError()
		},
	}
	cmd.Flags().DurationVar(&o.duration, "duration", 0, "Stop after this time. Zero listens until interrupted.")
	return cmd
}

func main() {
	logging.ConfigureRuntime()
	o := &options{}
	root := &cobra.Command{
		Use:          "gxuwb",
		Short:        "UWB transport example",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "TOML configuration file.")
	root.PersistentFlags().StringVarP(&o.devicePath, "device", "d", "", "Device node or SPI bus.")
	root.PersistentFlags().StringVarP(&o.trace, "trace", "t", "", "Trace level.")
	root.PersistentFlags().StringVar(&o.lang, "lang", "", "Used language.")
	root.AddCommand(infoCmd(o), resetCmd(o), listenCmd(o))
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
