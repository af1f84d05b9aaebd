package payments

import (
	"context"
	"fmt"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/docpoint/clinic-scheduler/internal/config"
	"github.com/docpoint/clinic-scheduler/internal/models"
)

// Checkout is a thin collaborator wrapper: it turns a scheduled appointment
// into a Mercado Pago checkout preference for the consultation fee. Payment
// state itself lives with the provider, not in this service.
type Checkout struct {
	prefs preference.Client
}

func NewCheckout(cfg *config.Config) (*Checkout, error) {
	if cfg.MPAccessToken == "" {
		return nil, nil
	}

	mpCfg, err := mpconfig.New(cfg.MPAccessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &Checkout{prefs: preference.NewClient(mpCfg)}, nil
}

func (ch *Checkout) Enabled() bool {
	return ch != nil
}

type CheckoutLink struct {
	PreferenceID string `json:"preference_id"`
	InitPoint    string `json:"init_point"`
}

func (ch *Checkout) CreateForAppointment(
	ctx context.Context,
	ap *models.Appointment,
	doctor *models.Doctor,
) (*CheckoutLink, error) {

	req := preference.Request{
		ExternalReference: fmt.Sprintf("appointment-%d", ap.ID),
		Items: []preference.ItemRequest{
			{
				Title:       fmt.Sprintf("Consultation with Dr. %s", doctor.User.Name),
				Description: doctor.Specialization,
				Quantity:    1,
				UnitPrice:   doctor.ConsultationFee,
			},
		},
	}

	resp, err := ch.prefs.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create preference: %w", err)
	}

	return &CheckoutLink{
		PreferenceID: resp.ID,
		InitPoint:    resp.InitPoint,
	}, nil
}
