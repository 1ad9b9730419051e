package whatsapp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imscloud/ims/internal/domain/models"
	client "github.com/imscloud/ims/pkg/clients/whatsapp"
)

type stubClient struct {
	sent []client.SendTextMessageRequest
	err  error
}

func (s *stubClient) SendTextMessage(ctx context.Context, req client.SendTextMessageRequest) (*client.SendTextMessageResponse, error) {
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("missing deadline")
	}
	s.sent = append(s.sent, req)
	return &client.SendTextMessageResponse{}, s.err
}

func TestSendOutbound(t *testing.T) {
	c := &stubClient{}
	svc := NewMetaWhatsAppService(c, nil)

	err := svc.SendOutbound(context.Background(), models.OutboundMessageRequest{To: "923000", Message: "Inventory summary"})
	require.NoError(t, err)
	require.Len(t, c.sent, 1)
	require.Equal(t, "Inventory summary", c.sent[0].Body)
}

func TestSendOutboundValidatesAndWrapsErrors(t *testing.T) {
	boom := errors.New("rate limited")
	svc := NewMetaWhatsAppService(&stubClient{err: boom}, nil)

	require.ErrorIs(t, svc.SendOutbound(context.Background(), models.OutboundMessageRequest{Message: "x"}), ErrEmptyMessage)
	require.ErrorIs(t, svc.SendOutbound(context.Background(), models.OutboundMessageRequest{To: "1", Message: "x"}), boom)
}
