package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"sync"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/jsphweid/quantdex/midi"
	"github.com/jsphweid/quantdex/model"
	"github.com/jsphweid/quantdex/quantizer"
	"github.com/jsphweid/quantdex/util"
	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

var listenFlags paramFlags
var listenSave string

func init() {
	addParamFlags(listenCmd, &listenFlags)
	listenCmd.Flags().StringVar(&listenSave, "save", "", "write a snapshot to this path on exit")
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:   "listen [port]",
	Short: "Learns from a live MIDI input",
	Long: `Learns reference notes from a MIDI input port and prints the
target pitches after each note. Stop with Ctrl-C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		port := 0
		if len(args) == 1 {
			p, err := strconv.Atoi(args[0])
			if err != nil {
				return fault.Wrap(err, fmsg.With("port must be a number"), ftag.With(ftag.InvalidArgument))
			}
			port = p
		}
		return listen(port)
	},
}

func listen(port int) error {
	defer gomidi.CloseDriver()

	p, err := listenFlags.params()
	if err != nil {
		return err
	}
	q := quantizer.New(p)
	var mu sync.Mutex

	stop, err := midi.Listen(port, func(n model.ReferenceNote) {
		mu.Lock()
		defer mu.Unlock()
		if !q.Append(midi.KeyToVolts(n.Key), n.Duration) {
			slog.Debug("suppressed repeat", "key", n.Key)
			return
		}
		fmt.Printf("%3d %.3fs -> %v\n", n.Key, n.Duration, targetNames(q))
	})
	if err != nil {
		return err
	}
	slog.Info("listening", "port", port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
	stop()

	if listenSave == "" {
		return nil
	}
	mu.Lock()
	snap := q.Snapshot()
	mu.Unlock()
	if err := util.CreateBinary(listenSave, snap); err != nil {
		return err
	}
	slog.Info("saved snapshot", "path", listenSave, "fill", len(snap.Events))
	return nil
}
