package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhouzirui/calm-corner/backend/internal/config"
	"github.com/zhouzirui/calm-corner/backend/internal/model/profile"
	"github.com/zhouzirui/calm-corner/backend/internal/service/ai"
	"github.com/zhouzirui/calm-corner/backend/internal/service/wellness"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] .env not loaded, using system environment: %v", err)
	}

	profileID := flag.String("profile", "", "profile id (classic, spectrum, detect); defaults to WELLNESS_PROFILE")
	mood := flag.String("mood", "", "selected mood label; defaults to the profile default")
	message := flag.String("message", "", "student message to compose a prompt for")
	send := flag.Bool("send", false, "send the prompt to the configured inference backend")
	timeout := flag.Duration("timeout", 60*time.Second, "request timeout when -send is set")
	list := flag.Bool("moods", false, "print the mood table of the profile and exit")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if *profileID == "" {
		*profileID = cfg.Wellness.DefaultProfile
	}

	profiles := profile.NewMemoryStore(profile.Seed())
	p, ok := profiles.FindByID(*profileID)
	if !ok {
		log.Fatalf("unknown profile %q", *profileID)
	}

	if *list {
		printMoods(p)
		return
	}

	if strings.TrimSpace(*message) == "" {
		flag.Usage()
		log.Fatal("please pass a non-empty -message")
	}

	selected := *mood
	if selected == "" {
		selected = p.DefaultMood
	}
	if !p.Registry().Contains(selected) {
		log.Printf("mood %q is not in the %s table, descriptor falls back to %q", selected, p.ID, p.Registry().Describe(selected))
	}

	controller := wellness.NewService(profiles, nil, nil)
	feeling, detected := controller.Feeling(p, selected, *message)
	descriptor := p.Registry().Describe(feeling)
	prompt := ai.Compose(p.Prompt, *message, feeling, descriptor)

	fmt.Printf("profile:    %s\n", p.ID)
	fmt.Printf("selected:   %s\n", selected)
	if p.DetectEmotion {
		fmt.Printf("detected:   %s\n", detected)
	}
	fmt.Printf("feeling:    %s (%s)\n", feeling, descriptor)
	fmt.Printf("decoding:   max_new_tokens=%d temperature=%.2f\n", p.MaxNewTokens, p.Temperature)
	fmt.Println("----- prompt -----")
	fmt.Println(prompt)

	if !*send {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	generator, err := ai.NewGenerator(ctx, cfg.Inference)
	if err != nil {
		log.Fatalf("inference backend unavailable: %v", err)
	}

	started := time.Now()
	reply, err := ai.NewService(generator, cfg.Inference.Timeout).Respond(ctx, prompt, p.MaxNewTokens, p.Temperature)
	if err != nil {
		log.Printf("completion failed after %s: %v", time.Since(started), err)
		os.Exit(1)
	}

	fmt.Println("----- reply -----")
	fmt.Println(reply)
	log.Printf("completion via %s/%s took %s", cfg.Inference.Backend, cfg.Inference.Model(), time.Since(started))
}

func printMoods(p profile.Profile) {
	for _, m := range p.Registry().List() {
		marker := " "
		if m.Label == p.DefaultMood {
			marker = "*"
		}
		desc := m.Descriptor
		if desc == "" {
			desc = "-"
		}
		fmt.Printf("%s %-18s %s\n", marker, m.Label, desc)
	}
}
