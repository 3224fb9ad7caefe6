// replay feeds recorded server traffic through the decoder and the stage
// simulation and prints what each stream ended up with.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/remeh/sizedwaitgroup"
	"go.uber.org/zap"

	"github.com/journeygo/client/internal/capture"
	"github.com/journeygo/client/internal/config"
	"github.com/journeygo/client/internal/data"
	"github.com/journeygo/client/internal/logging"
)

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

type result struct {
	file string
	capture.Report
	bytes uint64
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	cfgPath := fs.String("config", "config/client.toml", "client config file")
	port := fs.Uint("port", 0, "server TCP port (0 = replay.server_port)")
	parallel := fs.Int("parallel", 0, "streams replayed at once (0 = replay.parallelism)")
	_ = fs.Parse(os.Args[1:])
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: replay [-config file] [-port n] [-parallel n] <capture.pcap>...")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *port != 0 {
		cfg.Replay.ServerPort = uint16(*port)
	}
	if *parallel > 0 {
		cfg.Replay.Parallelism = *parallel
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	maps, err := data.LoadMapData(cfg.Data.MapDir)
	if err != nil {
		return fmt.Errorf("load map data: %w", err)
	}
	var mobs *data.MobTable
	if cfg.Data.MobFile != "" {
		if mobs, err = data.LoadMobTable(cfg.Data.MobFile); err != nil {
			return fmt.Errorf("load mob data: %w", err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	started := time.Now()
	replayer := capture.NewReplayer(cfg, maps, log)
	replayer.SetMobTable(mobs)
	wg := sizedwaitgroup.New(max(1, cfg.Replay.Parallelism))

	var (
		mu      sync.Mutex
		results []result
	)
	for _, path := range fs.Args() {
		streams, err := capture.Extract(ctx, path, cfg.Replay.ServerPort, log)
		if err != nil {
			log.Error("capture unreadable", zap.String("file", path), zap.Error(err))
			continue
		}
		if len(streams) == 0 {
			log.Warn("no server streams", zap.String("file", path), zap.Uint16("port", cfg.Replay.ServerPort))
		}
		for _, s := range streams {
			wg.Add()
			go func(path string, s *capture.Stream) {
				defer wg.Done()
				rep := replayer.Run(ctx, s)
				var n uint64
				for _, m := range s.Messages {
					n += uint64(len(m.Payload))
				}
				mu.Lock()
				results = append(results, result{file: path, Report: rep, bytes: n})
				mu.Unlock()
			}(path, s)
		}
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		if results[i].file != results[j].file {
			return results[i].file < results[j].file
		}
		return results[i].Key < results[j].Key
	})

	var totalMsgs, totalBytes uint64
	for _, r := range results {
		printResult(r)
		totalMsgs += uint64(r.Messages)
		totalBytes += r.bytes
	}
	fmt.Printf("\n%d streams, %s messages, %s in %s\n",
		len(results),
		humanize.Comma(int64(totalMsgs)),
		humanize.Bytes(totalBytes),
		durafmt.Parse(time.Since(started).Round(time.Millisecond)).LimitFirstN(2).Format(shortUnits))
	return nil
}

func printResult(r result) {
	fmt.Printf("%s  %s\n", r.file, r.Key)
	fmt.Printf("  messages %s (%s, %d failed) over %s\n",
		humanize.Comma(int64(r.Messages)),
		humanize.Bytes(r.bytes),
		r.Failed,
		durafmt.Parse(r.Span).LimitFirstN(2).Format(shortUnits))
	if r.CharacterID != 0 {
		fmt.Printf("  character %d %q on map %d\n", r.CharacterID, r.Name, r.MapID)
	}
	fmt.Printf("  ticks %s, anomalies %d\n", humanize.Comma(int64(r.Ticks)), r.Anomalies)
	if len(r.Objects) > 0 {
		kinds := make([]string, 0, len(r.Objects))
		for k, n := range r.Objects {
			kinds = append(kinds, fmt.Sprintf("%s=%d", k, n))
		}
		sort.Strings(kinds)
		fmt.Printf("  objects %s\n", strings.Join(kinds, " "))
	}
	if r.Err != nil {
		fmt.Printf("  error: %v\n", r.Err)
	}
}
