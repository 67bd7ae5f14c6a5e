// File: cmd/assistantctl/main.go
//
// assistantctl is the operator CLI: it wires the same use cases as the
// service binary and runs one operation per invocation.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"assistant-hub/internal/config"
	"assistant-hub/internal/domain"
	aiAdapters "assistant-hub/internal/infra/adapters/ai"
	pg "assistant-hub/internal/infra/db/postgres"
	"assistant-hub/internal/infra/logging"
	red "assistant-hub/internal/infra/redis"
	"assistant-hub/internal/infra/security"
	"assistant-hub/internal/runs"
	"assistant-hub/internal/usecase"
)

type runtime struct {
	cfg            *config.Config
	companyUC      usecase.CompanyUseCase
	assistantUC    usecase.AssistantUseCase
	documentUC     usecase.DocumentUseCase
	vectorStoreUC  usecase.VectorStoreUseCase
	conversationUC usecase.ConversationUseCase
	close          func()
}

func newRuntime(c *cli.Context) (*runtime, error) {
	ctx := c.Context

	cfg, err := config.LoadConfig(c.String("config"), c.Bool("dev"))
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}

	encKey := cfg.Security.EncryptionKey
	if len(encKey) != 32 {
		logger.Warn().Msg("security.encryption_key not set or not 32 bytes; using dev key")
		encKey = "0123456789abcdef0123456789abcdef"
	}
	encSvc, err := security.NewEncryptionService(encKey)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, err
	}

	tm := pg.NewTxManager(pool)
	companyRepo := pg.NewCompanyRepo(pool)
	assistantRepo := pg.NewAssistantRepo(pool)
	documentRepo := pg.NewDocumentRepo(pool)
	vectorStoreRepo := pg.NewVectorStoreRepo(pool)
	threadRepo := pg.NewPostgresThreadRepo(pool, red.NewThreadCache(redisClient, cfg.Redis.TTL), encSvc)
	jobRepo := pg.NewRunJobRepo(pool, tm)

	api, err := aiAdapters.NewFromConfig(cfg.AI)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, err
	}
	poller := runs.NewPoller(
		aiAdapters.NewRunClient(api),
		runs.WithMaxAttempts(cfg.Runs.MaxAttempts),
		runs.WithDelay(cfg.Runs.Delay),
	)

	return &runtime{
		cfg:           cfg,
		companyUC:     usecase.NewCompanyUseCase(companyRepo),
		assistantUC:   usecase.NewAssistantUseCase(companyRepo, assistantRepo, vectorStoreRepo, api, cfg.AI.DefaultModel),
		documentUC:    usecase.NewDocumentUseCase(companyRepo, documentRepo, api),
		vectorStoreUC: usecase.NewVectorStoreUseCase(vectorStoreRepo, documentRepo, api),
		conversationUC: usecase.NewConversationUseCase(
			threadRepo, assistantRepo, jobRepo, api, poller,
			red.NewLocker(redisClient), red.NewRateLimiter(redisClient),
			cfg.AI.Provider, cfg.AI.RateLimit, cfg.AI.RateWindow,
		),
		close: func() {
			pool.Close()
			_ = redisClient.Close()
		},
	}, nil
}

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "assistantctl",
		Usage: "Manage companies, assistants, documents and conversations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
				Value:   "config.yaml",
			},
			&cli.BoolFlag{
				Name:  "dev",
				Usage: "Developer mode (console logs, noop provider allowed)",
			},
		},
		Commands: []*cli.Command{
			companyCommand(),
			assistantCommand(),
			documentCommand(),
			vectorStoreCommand(),
			threadCommand(),
			askCommand(),
			jobCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func companyCommand() *cli.Command {
	return &cli.Command{
		Name:  "company",
		Usage: "Manage companies",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a company",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
				},
				Action: func(c *cli.Context) error {
					rt, err := newRuntime(c)
					if err != nil {
						return err
					}
					defer rt.close()
					co, err := rt.companyUC.Create(c.Context, c.String("name"))
					if err != nil {
						return err
					}
					fmt.Printf("company created: %s (%s)\n", co.ID, co.Name)
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "List companies",
				Action: func(c *cli.Context) error {
					rt, err := newRuntime(c)
					if err != nil {
						return err
					}
					defer rt.close()
					companies, err := rt.companyUC.List(c.Context)
					if err != nil {
						return err
					}
					for _, co := range companies {
						fmt.Printf("%s\t%s\n", co.ID, co.Name)
					}
					return nil
				},
			},
		},
	}
}

func assistantCommand() *cli.Command {
	return &cli.Command{
		Name:  "assistant",
		Usage: "Manage assistants",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create an assistant for a company",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "company", Required: true, Usage: "Company ID"},
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "instructions"},
					&cli.StringFlag{Name: "model", Usage: "Defaults to ai.default_model"},
				},
				Action: func(c *cli.Context) error {
					rt, err := newRuntime(c)
					if err != nil {
						return err
					}
					defer rt.close()
					a, err := rt.assistantUC.Create(c.Context, c.String("company"), c.String("name"), c.String("instructions"), c.String("model"))
					if err != nil {
						return err
					}
					fmt.Printf("assistant created: %s (remote %s, model %s)\n", a.ID, a.RemoteID, a.Model)
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "List assistants of a company",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "company", Required: true, Usage: "Company ID"},
				},
				Action: func(c *cli.Context) error {
					rt, err := newRuntime(c)
					if err != nil {
						return err
					}
					defer rt.close()
					assistants, err := rt.assistantUC.ListByCompany(c.Context, c.String("company"))
					if err != nil {
						return err
					}
					for _, a := range assistants {
						fmt.Printf("%s\t%s\t%s\t%s\n", a.ID, a.Name, a.Model, a.RemoteID)
					}
					return nil
				},
			},
			{
				Name:  "attach",
				Usage: "Attach a vector store to an assistant",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Required: true, Usage: "Assistant ID"},
					&cli.StringFlag{Name: "vector-store", Required: true, Usage: "Vector store ID"},
				},
				Action: func(c *cli.Context) error {
					rt, err := newRuntime(c)
					if err != nil {
						return err
					}
					defer rt.close()
					if err := rt.assistantUC.AttachVectorStore(c.Context, c.String("id"), c.String("vector-store")); err != nil {
						return err
					}
					fmt.Println("vector store attached")
					return nil
				},
			},
			{
				Name:  "delete",
				Usage: "Delete an assistant (local record and remote)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Required: true},
				},
				Action: func(c *cli.Context) error {
					rt, err := newRuntime(c)
					if err != nil {
						return err
					}
					defer rt.close()
					if err := rt.assistantUC.Delete(c.Context, c.String("id")); err != nil {
						return err
					}
					fmt.Println("assistant deleted")
					return nil
				},
			},
			{
				Name:  "models",
				Usage: "List models the provider offers",
				Action: func(c *cli.Context) error {
					rt, err := newRuntime(c)
					if err != nil {
						return err
					}
					defer rt.close()
					models, err := rt.assistantUC.ListModels(c.Context)
					if err != nil {
						return err
					}
					for _, m := range models {
						fmt.Println(m)
					}
					return nil
				},
			},
		},
	}
}

func documentCommand() *cli.Command {
	return &cli.Command{
		Name:  "document",
		Usage: "Manage retrieval documents",
		Subcommands: []*cli.Command{
			{
				Name:  "upload",
				Usage: "Upload a file to the provider",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "company", Required: true, Usage: "Company ID"},
					&cli.StringFlag{Name: "file", Required: true, Usage: "Path to the file"},
				},
				Action: func(c *cli.Context) error {
					rt, err := newRuntime(c)
					if err != nil {
						return err
					}
					defer rt.close()
					doc, err := rt.documentUC.Upload(c.Context, c.String("company"), c.String("file"))
					if err != nil {
						return err
					}
					fmt.Printf("document uploaded: %s (remote %s, %d bytes)\n", doc.ID, doc.RemoteFileID, doc.Bytes)
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "List documents of a company",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "company", Required: true, Usage: "Company ID"},
				},
				Action: func(c *cli.Context) error {
					rt, err := newRuntime(c)
					if err != nil {
						return err
					}
					defer rt.close()
					docs, err := rt.documentUC.ListByCompany(c.Context, c.String("company"))
					if err != nil {
						return err
					}
					for _, d := range docs {
						fmt.Printf("%s\t%s\t%s\n", d.ID, d.Filename, d.RemoteFileID)
					}
					return nil
				},
			},
		},
	}
}

func vectorStoreCommand() *cli.Command {
	return &cli.Command{
		Name:  "vector-store",
		Usage: "Manage vector stores",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a vector store from uploaded documents",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "company", Required: true, Usage: "Company ID"},
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringSliceFlag{Name: "doc", Usage: "Document ID (repeatable)"},
				},
				Action: func(c *cli.Context) error {
					rt, err := newRuntime(c)
					if err != nil {
						return err
					}
					defer rt.close()
					vs, err := rt.vectorStoreUC.Create(c.Context, c.String("company"), c.String("name"), c.StringSlice("doc"))
					if err != nil {
						return err
					}
					fmt.Printf("vector store created: %s (remote %s, %d files)\n", vs.ID, vs.RemoteID, len(vs.FileIDs))
					return nil
				},
			},
			{
				Name:  "add",
				Usage: "Add a document to a vector store",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Required: true, Usage: "Vector store ID"},
					&cli.StringFlag{Name: "doc", Required: true, Usage: "Document ID"},
				},
				Action: func(c *cli.Context) error {
					rt, err := newRuntime(c)
					if err != nil {
						return err
					}
					defer rt.close()
					if err := rt.vectorStoreUC.AddDocument(c.Context, c.String("id"), c.String("doc")); err != nil {
						return err
					}
					fmt.Println("document added")
					return nil
				},
			},
		},
	}
}

func threadCommand() *cli.Command {
	return &cli.Command{
		Name:  "thread",
		Usage: "Manage conversation threads",
		Subcommands: []*cli.Command{
			{
				Name:  "start",
				Usage: "Start a thread against an assistant",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "assistant", Required: true, Usage: "Assistant ID"},
				},
				Action: func(c *cli.Context) error {
					rt, err := newRuntime(c)
					if err != nil {
						return err
					}
					defer rt.close()
					t, err := rt.conversationUC.StartThread(c.Context, c.String("assistant"))
					if err != nil {
						return err
					}
					fmt.Printf("thread started: %s (remote %s)\n", t.ID, t.RemoteID)
					return nil
				},
			},
			{
				Name:  "show",
				Usage: "Print a thread's messages",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Required: true, Usage: "Thread ID"},
				},
				Action: func(c *cli.Context) error {
					rt, err := newRuntime(c)
					if err != nil {
						return err
					}
					defer rt.close()
					t, err := rt.conversationUC.GetThread(c.Context, c.String("id"))
					if err != nil {
						return err
					}
					fmt.Printf("thread %s (%s)\n", t.ID, t.Status)
					for _, m := range t.Messages {
						fmt.Printf("[%s] %s\n", m.Role, m.Content)
					}
					return nil
				},
			},
			{
				Name:  "close",
				Usage: "Close a thread",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Required: true, Usage: "Thread ID"},
				},
				Action: func(c *cli.Context) error {
					rt, err := newRuntime(c)
					if err != nil {
						return err
					}
					defer rt.close()
					if err := rt.conversationUC.CloseThread(c.Context, c.String("id")); err != nil {
						return err
					}
					fmt.Println("thread closed")
					return nil
				},
			},
		},
	}
}

func askCommand() *cli.Command {
	return &cli.Command{
		Name:  "ask",
		Usage: "Send a prompt and wait for the run to finish",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "thread", Required: true, Usage: "Thread ID"},
			&cli.StringFlag{Name: "prompt", Required: true},
		},
		Action: func(c *cli.Context) error {
			rt, err := newRuntime(c)
			if err != nil {
				return err
			}
			defer rt.close()

			reply, err := rt.conversationUC.Ask(c.Context, c.String("thread"), c.String("prompt"))
			switch {
			case err == nil:
				fmt.Println(reply)
				return nil
			case errors.Is(err, domain.ErrRunTimeout):
				return cli.Exit("run is still pending after the poll budget; inspect it later with `assistantctl job list`", 2)
			case errors.Is(err, domain.ErrActionRequired):
				return cli.Exit("run paused waiting for a tool action; this CLI does not resolve tool calls", 3)
			case errors.Is(err, domain.ErrRunFailed):
				return cli.Exit(fmt.Sprintf("run failed: %v", err), 4)
			case errors.Is(err, domain.ErrThreadBusy):
				return cli.Exit("thread already has a run in flight; retry when it finishes", 5)
			default:
				return err
			}
		},
	}
}

func jobCommand() *cli.Command {
	return &cli.Command{
		Name:  "job",
		Usage: "Queued run jobs",
		Subcommands: []*cli.Command{
			{
				Name:  "enqueue",
				Usage: "Queue a prompt for background processing",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "thread", Required: true, Usage: "Thread ID"},
					&cli.StringFlag{Name: "prompt", Required: true},
				},
				Action: func(c *cli.Context) error {
					rt, err := newRuntime(c)
					if err != nil {
						return err
					}
					defer rt.close()
					job, err := rt.conversationUC.EnqueueAsk(c.Context, c.String("thread"), c.String("prompt"))
					if err != nil {
						return err
					}
					fmt.Printf("job queued: %s\n", job.ID)
					return nil
				},
			},
			{
				Name:  "get",
				Usage: "Show one job",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Required: true, Usage: "Job ID"},
				},
				Action: func(c *cli.Context) error {
					rt, err := newRuntime(c)
					if err != nil {
						return err
					}
					defer rt.close()
					job, err := rt.conversationUC.GetJob(c.Context, c.String("id"))
					if err != nil {
						return err
					}
					fmt.Printf("job %s: %s\n", job.ID, job.Status)
					if job.Reply != "" {
						fmt.Println(job.Reply)
					}
					if job.LastError != "" {
						fmt.Printf("error: %s\n", job.LastError)
					}
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "List recent jobs",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20},
				},
				Action: func(c *cli.Context) error {
					rt, err := newRuntime(c)
					if err != nil {
						return err
					}
					defer rt.close()
					jobs, err := rt.conversationUC.ListRecentJobs(c.Context, c.Int("limit"))
					if err != nil {
						return err
					}
					for _, j := range jobs {
						fmt.Printf("%s\t%s\t%s\n", j.ID, j.Status, j.ThreadID)
					}
					return nil
				},
			},
		},
	}
}
