package securesubmit

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kevin07696/securesubmit-plugin/internal/domain/ports"
	pkgerrors "github.com/kevin07696/securesubmit-plugin/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxResponseBytes bounds how much of a Portico reply is read
const maxResponseBytes = 1 << 20

// Client is a Portico credit client bound to one secret API key.
// A Client is opened per payment operation by the Factory.
type Client struct {
	endpoint       string
	secretAPIKey   string
	httpClient     ports.HTTPClient
	circuitBreaker *CircuitBreaker
	logger         *zap.Logger
}

var _ ports.CreditGateway = (*Client)(nil)

// NewClient creates a client for the given secret API key
func NewClient(config *Config, secretAPIKey string, httpClient ports.HTTPClient, breaker *CircuitBreaker, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	if breaker == nil {
		breaker = NewCircuitBreaker(config.CircuitBreaker)
	}
	return &Client{
		endpoint:       config.EndpointFor(secretAPIKey),
		secretAPIKey:   secretAPIKey,
		httpClient:     httpClient,
		circuitBreaker: breaker,
		logger:         logger,
	}
}

// Endpoint returns the Portico URL this client posts to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Authorize reserves funds on a tokenized card
func (c *Client) Authorize(ctx context.Context, amount decimal.Decimal, currency, token string, holder ports.CardHolder) (*ports.GatewayAuthorization, error) {
	if err := checkCurrency(currency); err != nil {
		return nil, err
	}
	txn := requestTransaction{CreditAuth: &creditAuthReq{Block1: buildAuthBlock(amount, token, holder)}}
	rsp, err := c.do(ctx, "CreditAuth", currency, txn)
	if err != nil {
		return nil, err
	}
	return authorizationFrom(rsp.Header, rsp.Transaction.CreditAuth)
}

// Charge authorizes and captures a tokenized card in one call
func (c *Client) Charge(ctx context.Context, amount decimal.Decimal, currency, token string, holder ports.CardHolder) (*ports.GatewayAuthorization, error) {
	if err := checkCurrency(currency); err != nil {
		return nil, err
	}
	txn := requestTransaction{CreditSale: &creditAuthReq{Block1: buildAuthBlock(amount, token, holder)}}
	rsp, err := c.do(ctx, "CreditSale", currency, txn)
	if err != nil {
		return nil, err
	}
	return authorizationFrom(rsp.Header, rsp.Transaction.CreditSale)
}

// Capture adds a prior authorization to the open batch for the given amount
func (c *Client) Capture(ctx context.Context, transactionID string, amount decimal.Decimal) (*ports.GatewayAuthorization, error) {
	id, err := parseTransactionID(transactionID)
	if err != nil {
		return nil, err
	}
	txn := requestTransaction{CreditAddToBatch: &addToBatchReq{GatewayTxnID: id, Amt: formatAmount(amount)}}
	rsp, err := c.do(ctx, "CreditAddToBatch", "", txn)
	if err != nil {
		return nil, err
	}
	// AddToBatch keeps the authorization's transaction id when Portico echoes none
	resultID := rsp.Header.GatewayTxnID
	if resultID == 0 {
		resultID = id
	}
	return &ports.GatewayAuthorization{
		TransactionID: strconv.FormatInt(resultID, 10),
		ResponseText:  rsp.Header.GatewayRspMsg,
	}, nil
}

// Refund returns funds against a captured transaction
func (c *Client) Refund(ctx context.Context, amount decimal.Decimal, currency, transactionID string) error {
	if err := checkCurrency(currency); err != nil {
		return err
	}
	id, err := parseTransactionID(transactionID)
	if err != nil {
		return err
	}
	txn := requestTransaction{CreditReturn: &creditReturnReq{Block1: returnBlock{
		AllowDup:     "Y",
		Amt:          formatAmount(amount),
		GatewayTxnID: id,
	}}}
	_, err = c.do(ctx, "CreditReturn", currency, txn)
	return err
}

// Void cancels an authorization or an unsettled capture
func (c *Client) Void(ctx context.Context, transactionID string) error {
	id, err := parseTransactionID(transactionID)
	if err != nil {
		return err
	}
	txn := requestTransaction{CreditVoid: &creditVoidReq{GatewayTxnID: id}}
	_, err = c.do(ctx, "CreditVoid", "", txn)
	return err
}

// do posts one transaction through the circuit breaker and checks the gateway result code
func (c *Client) do(ctx context.Context, operation, currency string, txn requestTransaction) (*posResponseVer, error) {
	clientTxnID := newClientTxnID()

	envelope := requestEnvelope{
		Soap: soapNamespace,
		Body: requestBody{PosRequest: posRequest{
			XMLNS: posGatewayNS,
			Ver: posRequestVer{
				Header: requestHeader{
					SecretAPIKey: c.secretAPIKey,
					DeveloperID:  DeveloperID,
					VersionNbr:   VersionNumber,
					ClientTxnID:  clientTxnID,
				},
				Transaction: txn,
			},
		}},
	}

	payload, err := xml.Marshal(envelope)
	if err != nil {
		return nil, pkgerrors.NewSystemError("failed to encode gateway request", err)
	}

	c.logger.Info("Sending Portico transaction",
		zap.String("operation", operation),
		zap.String("currency", currency),
		zap.Uint64("client_txn_id", clientTxnID),
	)

	var result *posResponseVer
	err = c.circuitBreaker.Execute(func() error {
		startTime := time.Now()

		body, err := c.post(ctx, payload)
		if err != nil {
			c.logger.Error("Portico request failed",
				zap.String("operation", operation),
				zap.Error(err),
				zap.Duration("elapsed", time.Since(startTime)),
			)
			return err
		}

		parsed, err := parseResponse(body)
		if err != nil {
			c.logger.Error("Failed to parse Portico response",
				zap.String("operation", operation),
				zap.Error(err),
				zap.Int("body_length", len(body)),
			)
			return err
		}

		c.logger.Info("Received Portico response",
			zap.String("operation", operation),
			zap.Int64("gateway_txn_id", parsed.Header.GatewayTxnID),
			zap.Int("gateway_rsp_code", parsed.Header.GatewayRspCode),
			zap.Duration("elapsed", time.Since(startTime)),
		)

		if parsed.Header.GatewayRspCode != 0 {
			return gatewayResponseError(parsed.Header)
		}

		result = parsed
		return nil
	})

	if err == ErrCircuitOpen || err == ErrProbeInFlight {
		c.logger.Warn("Circuit breaker rejected Portico request",
			zap.String("operation", operation),
			zap.String("circuit_state", c.circuitBreaker.State().String()),
		)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, payload []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.NewSystemError("failed to create gateway request", err)
	}
	httpReq.Header.Set("Content-Type", "text/xml; charset=utf-8")
	httpReq.Header.Set("SOAPAction", soapActionBase)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.NewNetworkError("unable to reach the payment gateway", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, pkgerrors.NewNetworkError("failed to read gateway response", err)
	}

	// SOAP faults come back as 500 with an envelope, so only reject non-XML error pages here
	if httpResp.StatusCode >= 400 && !bytes.Contains(body, []byte("Envelope")) {
		return nil, pkgerrors.NewSystemError(fmt.Sprintf("payment gateway returned HTTP %d", httpResp.StatusCode), nil)
	}
	return body, nil
}

// parseResponse decodes a Portico SOAP reply
func parseResponse(body []byte) (*posResponseVer, error) {
	var env responseEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		return nil, pkgerrors.NewSystemError("malformed gateway response", err)
	}
	if env.Body.Fault != nil {
		return nil, pkgerrors.NewSystemError(fmt.Sprintf("gateway fault: %s", env.Body.Fault.String), nil)
	}
	if env.Body.PosResponse == nil {
		return nil, pkgerrors.NewSystemError("gateway response missing PosResponse", nil)
	}
	return &env.Body.PosResponse.Ver, nil
}

// gatewayResponseError maps a non-zero GatewayRspCode to an error
func gatewayResponseError(h responseHeader) error {
	code := strconv.Itoa(h.GatewayRspCode)
	msg := strings.TrimSpace(h.GatewayRspMsg)
	if msg == "" {
		msg = "payment gateway error " + code
	}
	switch h.GatewayRspCode {
	case -2:
		return &pkgerrors.GatewayError{Code: code, Message: "authentication error, please double check your service configuration", GatewayMessage: msg, Category: pkgerrors.CategoryInvalidRequest}
	case 1, 30:
		// 1: gateway system error, 30: gateway timeout
		return &pkgerrors.GatewayError{Code: code, Message: msg, GatewayMessage: msg, Category: pkgerrors.CategorySystemError}
	default:
		return pkgerrors.NewGatewayRejectedError(code, msg)
	}
}

// authorizationFrom checks the issuer response of an auth or sale
func authorizationFrom(h responseHeader, rsp *authRsp) (*ports.GatewayAuthorization, error) {
	if rsp == nil {
		return nil, pkgerrors.NewSystemError("gateway response missing transaction result", nil)
	}
	if rsp.RspCode != "00" {
		text := strings.TrimSpace(rsp.RspText)
		if text == "" {
			text = "The card was declined."
		}
		return nil, pkgerrors.NewDeclinedError(rsp.RspCode, text)
	}
	return &ports.GatewayAuthorization{
		TransactionID: strconv.FormatInt(h.GatewayTxnID, 10),
		AuthCode:      rsp.AuthCode,
		ResponseCode:  rsp.RspCode,
		ResponseText:  rsp.RspText,
	}, nil
}

func buildAuthBlock(amount decimal.Decimal, token string, holder ports.CardHolder) authBlock {
	block := authBlock{
		AllowDup: "N",
		Amt:      formatAmount(amount),
		CardData: cardData{TokenData: tokenData{TokenValue: token}},
	}
	if holder != (ports.CardHolder{}) {
		block.CardHolderData = &cardHolderData{
			Addr:    holder.Address,
			City:    holder.City,
			State:   holder.State,
			Zip:     strings.ReplaceAll(holder.Zip, "-", ""),
			Country: holder.Country,
		}
	}
	return block
}

func formatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// parseTransactionID validates a Portico GatewayTxnId
func parseTransactionID(transactionID string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(transactionID), 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.NewGatewayRejectedError("INVALID_TXN_ID", fmt.Sprintf("invalid gateway transaction id %q", transactionID))
	}
	return id, nil
}

// checkCurrency rejects anything but US dollars; Portico credit transactions carry no currency field
func checkCurrency(currency string) error {
	code := strings.TrimSpace(currency)
	if code == "" {
		return pkgerrors.NewGatewayRejectedError("INVALID_CURRENCY", "currency is required")
	}
	if !strings.EqualFold(code, SupportedCurrency) {
		return pkgerrors.NewGatewayRejectedError("INVALID_CURRENCY", fmt.Sprintf("currency %q is not supported, only %s is accepted", code, SupportedCurrency))
	}
	return nil
}

// newClientTxnID derives Portico's numeric client transaction id from a random UUID
func newClientTxnID() uint64 {
	id := uuid.New()
	return binary.BigEndian.Uint64(id[:8]) >> 1
}
