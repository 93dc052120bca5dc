package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	captcha9kw "github.com/anatolykoptev/go-captcha9kw"
)

func (a *app) balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the account credit balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			credits, err := a.client.Balance(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]int{"credits": credits})
		},
	}
}

func (a *app) settingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Show the account settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.client.Settings(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s.Raw)
		},
	}
}

func (a *app) setCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "set <selfonly|selfsend|selfsolve> <true|false>",
		Short:     "Change an account setting",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"selfonly", "selfsend", "selfsolve"},
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[1], err)
			}
			ctx := cmd.Context()
			switch args[0] {
			case "selfonly":
				err = a.client.SetSelfOnly(ctx, v)
			case "selfsend":
				err = a.client.SetSelfSend(ctx, v)
			case "selfsolve":
				err = a.client.SetSelfSolve(ctx, v)
			default:
				return fmt.Errorf("unknown setting %q", args[0])
			}
			if err != nil {
				return err
			}
			a.log.Info().Str("setting", args[0]).Bool("value", v).Msg("setting updated")
			return nil
		},
	}
}

func (a *app) referralsCmd() *cobra.Command {
	var archived bool
	cmd := &cobra.Command{
		Use:   "referrals",
		Short: "List the account's referrals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				refs []any
				err  error
			)
			if archived {
				refs, err = a.client.ReferralsArchived(cmd.Context())
			} else {
				refs, err = a.client.Referrals(cmd.Context())
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), refs)
		},
	}
	cmd.Flags().BoolVar(&archived, "archived", false, "include archived referrals")
	return cmd
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the public service status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.client.ServiceStatus(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), st)
		},
	}
}

// submitFlags registers the options shared by both submit commands.
func submitFlags(cmd *cobra.Command, o *captcha9kw.SubmitOptions) {
	cmd.Flags().IntVar(&o.MaxTimeout, "max-timeout", 0, "answer deadline in seconds, 60-3999 (default 600)")
	cmd.Flags().IntVar(&o.Priority, "prio", 0, "priority 0-20, adds to the credit cost")
	cmd.Flags().BoolVar(&o.Confirm, "confirm", false, "have the answer double-checked")
	cmd.Flags().BoolVar(&o.SelfSolve, "selfsolve", false, "only solvable by this account")
	cmd.Flags().BoolVar(&o.Debug, "service-debug", false, "use the service's testing environment")
}

// submitted prints the captcha ID, or waits for and prints the answer.
func (a *app) submitted(cmd *cobra.Command, id int64, wait bool) error {
	a.log.Info().Int64("id", id).Msg("captcha submitted")
	if !wait {
		return printJSON(cmd.OutOrStdout(), map[string]int64{"id": id})
	}
	answer, err := a.client.AwaitAnswer(cmd.Context(), id, false)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), map[string]any{"id": id, "answer": answer})
}

func (a *app) submitImageCmd() *cobra.Command {
	var (
		opts captcha9kw.ImageOptions
		wait bool
	)
	cmd := &cobra.Command{
		Use:   "submit-image <path|url|base64|->",
		Short: "Submit an image captcha",
		Long:  "Submit an image captcha read from a file, a URL, base64 data or stdin (-).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img := captcha9kw.ImageRef(args[0])
			if args[0] == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				img = captcha9kw.ImageBytes(data)
			}
			id, err := a.client.SubmitImageCaptcha(cmd.Context(), img, opts)
			if err != nil {
				return err
			}
			return a.submitted(cmd, id, wait)
		},
	}
	submitFlags(cmd, &opts.SubmitOptions)
	cmd.Flags().BoolVar(&opts.NoMD5, "nomd5", false, "disable duplicate detection")
	cmd.Flags().BoolVar(&opts.OCR, "ocr", false, "try OCR first")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait for the answer")
	return cmd
}

func (a *app) submitInteractiveCmd() *cobra.Command {
	var (
		siteKey string
		opts    captcha9kw.InteractiveOptions
		wait    bool
	)
	cmd := &cobra.Command{
		Use:   "submit-interactive",
		Short: "Submit an interactive captcha (reCAPTCHA, hCaptcha, ...)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := a.client.SubmitInteractiveCaptcha(cmd.Context(), siteKey, opts)
			if err != nil {
				return err
			}
			return a.submitted(cmd, id, wait)
		},
	}
	submitFlags(cmd, &opts.SubmitOptions)
	cmd.Flags().StringVar(&siteKey, "sitekey", "", "site key of the captcha")
	cmd.Flags().StringVar(&opts.PageURL, "page-url", "", "page hosting the captcha")
	cmd.Flags().StringVar(&opts.CaptchaType, "type", "", "captcha type, e.g. recaptchav2, hcaptcha, funcaptcha")
	cmd.Flags().StringVar(&opts.Cookies, "cookies", "", "cookies needed to solve the captcha")
	cmd.Flags().StringVar(&opts.UserAgent, "user-agent", "", "user agent needed to solve the captcha")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait for the answer")
	_ = cmd.MarkFlagRequired("sitekey")
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid captcha id %q: %w", s, err)
	}
	return id, nil
}

func (a *app) answerCmd() *cobra.Command {
	var wait, archive bool
	cmd := &cobra.Command{
		Use:   "answer <id>",
		Short: "Get the answer to a captcha",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var answer string
			if wait {
				answer, err = a.client.AwaitAnswer(cmd.Context(), id, archive)
			} else {
				answer, err = a.client.GetAnswer(cmd.Context(), id, archive)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"id": id, "answer": answer})
		},
	}
	cmd.Flags().BoolVar(&wait, "wait", false, "poll until the captcha is answered")
	cmd.Flags().BoolVar(&archive, "archive", false, "query an archived captcha")
	return cmd
}

func (a *app) solvedCmd() *cobra.Command {
	var (
		q      captcha9kw.SolvedQuery
		filter string
	)
	cmd := &cobra.Command{
		Use:   "solved",
		Short: "List captchas solved by the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q.Filter = captcha9kw.HistoryFilter(filter)
			page, err := a.client.CaptchasSolved(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), page)
		},
	}
	cmd.Flags().StringVar(&q.Source, "by-source", "", "only captchas submitted with this software name")
	cmd.Flags().StringVar(&q.CorrectSource, "correct-source", "", "only captchas solved with this software name")
	cmd.Flags().StringVar(&filter, "filter", "", "ok, notok, both or other")
	cmd.Flags().BoolVar(&q.Archive, "archive", false, "include archived results")
	cmd.Flags().BoolVar(&q.Confirm, "confirm", false, "only confirm captchas")
	cmd.Flags().IntVar(&q.Page, "page", 0, "page number (10 rows per page)")
	cmd.Flags().BoolVar(&q.OnlyAPIKey, "only-apikey", false, "only results for the current API key")
	return cmd
}

func (a *app) submittedCmd() *cobra.Command {
	var (
		q      captcha9kw.SubmittedQuery
		filter string
	)
	cmd := &cobra.Command{
		Use:   "submitted",
		Short: "List captchas submitted by the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q.Filter = captcha9kw.HistoryFilter(filter)
			page, err := a.client.CaptchasSubmitted(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), page)
		},
	}
	cmd.Flags().StringVar(&q.Source, "by-source", "", "only captchas submitted with this software name")
	cmd.Flags().StringVar(&q.CorrectSource, "correct-source", "", "only captchas solved with this software name")
	cmd.Flags().StringVar(&filter, "filter", "", "ok, notok, both or other")
	cmd.Flags().BoolVar(&q.Archive, "archive", false, "include archived results")
	cmd.Flags().IntVar(&q.Page, "page", 0, "page number (10 rows per page)")
	cmd.Flags().BoolVar(&q.OnlyAPIKey, "only-apikey", false, "only results for the current API key")
	return cmd
}

func (a *app) failedCmd() *cobra.Command {
	var q captcha9kw.FailedQuery
	cmd := &cobra.Command{
		Use:   "failed",
		Short: "List the account's failed captchas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.client.CaptchasFailed(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), page)
		},
	}
	cmd.Flags().BoolVar(&q.Archive, "archive", false, "include archived results")
	cmd.Flags().IntVar(&q.Page, "page", 0, "page number (10 rows per page)")
	cmd.Flags().BoolVar(&q.OnlyAPIKey, "only-apikey", false, "only results for the current API key")
	return cmd
}

func (a *app) detailCmd() *cobra.Command {
	var archive bool
	cmd := &cobra.Command{
		Use:   "detail <id>",
		Short: "Show details of a captcha",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			d, err := a.client.CaptchaDetails(cmd.Context(), id, archive)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), d)
		},
	}
	cmd.Flags().BoolVar(&archive, "archive", false, "query an archived captcha")
	return cmd
}

func (a *app) feedbackCmd() *cobra.Command {
	var incorrect, archive bool
	cmd := &cobra.Command{
		Use:   "feedback <id>",
		Short: "Report whether a captcha's answer was correct",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if incorrect {
				err = a.client.MarkIncorrect(cmd.Context(), id, archive)
			} else {
				err = a.client.MarkCorrect(cmd.Context(), id, archive)
			}
			if err != nil {
				return err
			}
			a.log.Info().Int64("id", id).Bool("correct", !incorrect).Msg("feedback sent")
			return nil
		},
	}
	cmd.Flags().BoolVar(&incorrect, "incorrect", false, "mark the answer as incorrect (default: correct)")
	cmd.Flags().BoolVar(&archive, "archive", false, "the captcha is archived")
	return cmd
}

func (a *app) transferCmd() *cobra.Command {
	var (
		credits int
		userID  int64
		bonus   bool
	)
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer credits to another account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind := captcha9kw.TransferCreditsOnly
			if bonus {
				kind = captcha9kw.TransferWithBonus
			}
			id, err := a.client.TransferCredits(cmd.Context(), credits, userID, kind)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]int64{"transferid": id})
		},
	}
	cmd.Flags().IntVar(&credits, "credits", 0, "credits to transfer")
	cmd.Flags().Int64Var(&userID, "user-id", 0, "ID of the receiving account")
	cmd.Flags().BoolVar(&bonus, "bonus", false, "include values from the bonus program")
	_ = cmd.MarkFlagRequired("credits")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

func (a *app) couponCmd() *cobra.Command {
	var credits int
	cmd := &cobra.Command{
		Use:   "coupon",
		Short: "Create a coupon code from the account balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code, err := a.client.CreateCoupon(cmd.Context(), credits)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{"code": code})
		},
	}
	cmd.Flags().IntVar(&credits, "credits", 0, "credits to put on the coupon (minimum 1000)")
	_ = cmd.MarkFlagRequired("credits")
	return cmd
}

func (a *app) createAccountCmd() *cobra.Command {
	var code, referrer string
	cmd := &cobra.Command{
		Use:   "create-account",
		Short: "Create a new account funded with credits or a coupon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			acc, err := a.client.CreateAccount(cmd.Context(), code, referrer)
			if err != nil {
				return err
			}
			a.log.Warn().Str("username", acc.Username).Msg("store the password now, it cannot be retrieved again")
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"username": acc.Username,
				"password": acc.Password,
			})
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "credits to transfer (minimum 40000) or a coupon code")
	cmd.Flags().StringVar(&referrer, "referrer", "", "ID of the referring account")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}
