package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/intent-score/internal/api/dto"
	"github.com/spec-kit/intent-score/internal/domain"
	"github.com/spec-kit/intent-score/internal/service"
	"github.com/spec-kit/intent-score/pkg/validator"
)

type attributeFlags struct {
	phone    string
	email    string
	credit   int
	income   float64
	age      string
	family   string
	comments string
}

func (f *attributeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&f.email, "email", "", "Email address")
	cmd.Flags().IntVar(&f.credit, "credit", 0, "Credit score (300-850)")
	cmd.Flags().Float64Var(&f.income, "income", 0, "Annual income")
	cmd.Flags().StringVar(&f.age, "age", string(domain.AgeGroup26To35), "Age group: 18-25, 26-35, 36-50, 51+")
	cmd.Flags().StringVar(&f.family, "family", string(domain.FamilySingle), "Family background: Single, Married, Married with Kids")
	cmd.Flags().StringVar(&f.comments, "comments", "", "Free-text comments")
}

func (f *attributeFlags) scoreRequest() dto.ScoreLeadRequest {
	return dto.ScoreLeadRequest{
		PhoneNumber:      f.phone,
		Email:            f.email,
		CreditScore:      f.credit,
		Income:           f.income,
		AgeGroup:         domain.AgeGroup(f.age),
		FamilyBackground: domain.FamilyBackground(f.family),
		Comments:         f.comments,
	}
}

type scoreOutput struct {
	Source        domain.ScoreSource `json:"source"`
	Reason        string             `json:"reason,omitempty"`
	InitialScore  int                `json:"initialScore"`
	RerankedScore int                `json:"rerankedScore"`
	Factors       map[string]float64 `json:"factors,omitempty"`
}

func (c *cli) scoreCommand() *cobra.Command {
	var attrs attributeFlags
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score lead attributes without storing them",
		Long: `Score lead attributes against the remote scorer.
Falls back to the local engine when the scorer is unreachable; the output names the source used.`,
		Args: cobra.NoArgs,
		RunE: c.run(false, func(cmd *cobra.Command, _ []string) error {
			outcome := c.rt.Client.Submit(cmd.Context(), attrs.scoreRequest().Attributes())
			return c.printJSON(scoreOutput{
				Source:        outcome.Source,
				Reason:        outcome.Reason,
				InitialScore:  outcome.Result.InitialScore,
				RerankedScore: outcome.Result.RerankedScore,
				Factors:       outcome.Result.Factors,
			})
		}),
	}
	attrs.register(cmd)
	return cmd
}

func (c *cli) addCommand() *cobra.Command {
	var (
		attrs   attributeFlags
		consent bool
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Score a lead and add it to the collection",
		Args:  cobra.NoArgs,
		RunE: c.run(true, func(cmd *cobra.Command, _ []string) error {
			req := dto.CreateLeadRequest{
				PhoneNumber:      attrs.phone,
				Email:            attrs.email,
				CreditScore:      attrs.credit,
				Income:           attrs.income,
				AgeGroup:         domain.AgeGroup(attrs.age),
				FamilyBackground: domain.FamilyBackground(attrs.family),
				Comments:         attrs.comments,
				Consent:          consent,
			}
			if err := validator.New().Struct(req); err != nil {
				return fmt.Errorf("invalid lead: %v", validator.FieldErrors(err))
			}

			lead, err := c.rt.Store.AddLead(cmd.Context(), req.Attributes())
			if err != nil {
				return err
			}
			return c.printJSON(dto.NewLeadResponse(*lead))
		}),
	}
	attrs.register(cmd)
	cmd.Flags().BoolVar(&consent, "consent", false, "Confirm the lead consented to be contacted (required)")
	return cmd
}

func (c *cli) listCommand() *cobra.Command {
	var search, sortBy, direction string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored leads",
		Args:  cobra.NoArgs,
		RunE: c.run(false, func(_ *cobra.Command, _ []string) error {
			key, ok := service.ParseSortKey(sortBy)
			if !ok {
				return fmt.Errorf("unknown sort column %q", sortBy)
			}
			dir, ok := service.ParseSortDirection(direction)
			if !ok {
				return fmt.Errorf("unknown sort direction %q", direction)
			}

			leads := c.rt.Store.Query(service.LeadQuery{Search: search, SortBy: key, Direction: dir})
			items := make([]dto.LeadResponse, 0, len(leads))
			for _, lead := range leads {
				items = append(items, dto.NewLeadResponse(lead))
			}
			return c.printJSON(items)
		}),
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive text filter")
	cmd.Flags().StringVar(&sortBy, "sort", string(service.SortByRerankedScore), "Sort column")
	cmd.Flags().StringVar(&direction, "direction", string(service.SortDescending), "Sort direction: asc or desc")
	return cmd
}

func (c *cli) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [id]",
		Short: "Remove a lead by id",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(true, func(cmd *cobra.Command, args []string) error {
			removed := c.rt.Store.RemoveLead(cmd.Context(), args[0])
			return c.printJSON(map[string]any{"id": args[0], "removed": removed})
		}),
	}
}

func (c *cli) clearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every stored lead",
		Args:  cobra.NoArgs,
		RunE: c.run(true, func(cmd *cobra.Command, _ []string) error {
			before := c.rt.Store.State().Count
			c.rt.Store.ClearLeads(cmd.Context())
			return c.printJSON(map[string]any{"removed": before})
		}),
	}
}

func (c *cli) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard totals and average scores",
		Args:  cobra.NoArgs,
		RunE: c.run(false, func(_ *cobra.Command, _ []string) error {
			return c.printJSON(c.rt.Store.Stats())
		}),
	}
}
