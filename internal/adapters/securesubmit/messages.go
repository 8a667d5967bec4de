package securesubmit

import (
	"encoding/xml"
)

// Portico PosGateway SOAP envelope. Only the elements used by the
// credit operations below are modelled.

const (
	soapNamespace  = "http://schemas.xmlsoap.org/soap/envelope/"
	posGatewayNS   = "http://Hps.Exchange.PosGateway"
	soapActionBase = "http://Hps.Exchange.PosGateway/DoTransaction"
)

type requestEnvelope struct {
	XMLName xml.Name    `xml:"soap:Envelope"`
	Soap    string      `xml:"xmlns:soap,attr"`
	Body    requestBody `xml:"soap:Body"`
}

type requestBody struct {
	PosRequest posRequest `xml:"PosRequest"`
}

type posRequest struct {
	XMLNS string        `xml:"xmlns,attr"`
	Ver   posRequestVer `xml:"Ver1.0"`
}

type posRequestVer struct {
	Header      requestHeader      `xml:"Header"`
	Transaction requestTransaction `xml:"Transaction"`
}

type requestHeader struct {
	SecretAPIKey string `xml:"SecretAPIKey"`
	DeveloperID  string `xml:"DeveloperID"`
	VersionNbr   string `xml:"VersionNbr"`
	ClientTxnID  uint64 `xml:"ClientTxnId"`
}

// requestTransaction holds exactly one populated operation
type requestTransaction struct {
	CreditAuth       *creditAuthReq   `xml:"CreditAuth,omitempty"`
	CreditSale       *creditAuthReq   `xml:"CreditSale,omitempty"`
	CreditAddToBatch *addToBatchReq   `xml:"CreditAddToBatch,omitempty"`
	CreditReturn     *creditReturnReq `xml:"CreditReturn,omitempty"`
	CreditVoid       *creditVoidReq   `xml:"CreditVoid,omitempty"`
}

type creditAuthReq struct {
	Block1 authBlock `xml:"Block1"`
}

type authBlock struct {
	AllowDup       string          `xml:"AllowDup"`
	Amt            string          `xml:"Amt"`
	CardHolderData *cardHolderData `xml:"CardHolderData,omitempty"`
	CardData       cardData        `xml:"CardData"`
}

type cardHolderData struct {
	Addr    string `xml:"CardHolderAddr,omitempty"`
	City    string `xml:"CardHolderCity,omitempty"`
	State   string `xml:"CardHolderState,omitempty"`
	Zip     string `xml:"CardHolderZip,omitempty"`
	Country string `xml:"CardHolderCountry,omitempty"`
}

type cardData struct {
	TokenData tokenData `xml:"TokenData"`
}

type tokenData struct {
	TokenValue string `xml:"TokenValue"`
}

type addToBatchReq struct {
	GatewayTxnID int64  `xml:"GatewayTxnId"`
	Amt          string `xml:"Amt,omitempty"`
}

type creditReturnReq struct {
	Block1 returnBlock `xml:"Block1"`
}

type returnBlock struct {
	AllowDup     string `xml:"AllowDup"`
	Amt          string `xml:"Amt"`
	GatewayTxnID int64  `xml:"GatewayTxnId"`
}

type creditVoidReq struct {
	GatewayTxnID int64 `xml:"GatewayTxnId"`
}

// Response side. Namespaces are ignored by matching on local names.

type responseEnvelope struct {
	XMLName xml.Name     `xml:"Envelope"`
	Body    responseBody `xml:"Body"`
}

type responseBody struct {
	PosResponse *posResponse `xml:"PosResponse"`
	Fault       *soapFault   `xml:"Fault"`
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

type posResponse struct {
	Ver posResponseVer `xml:"Ver1.0"`
}

type posResponseVer struct {
	Header      responseHeader      `xml:"Header"`
	Transaction responseTransaction `xml:"Transaction"`
}

type responseHeader struct {
	GatewayTxnID   int64  `xml:"GatewayTxnId"`
	GatewayRspCode int    `xml:"GatewayRspCode"`
	GatewayRspMsg  string `xml:"GatewayRspMsg"`
	ClientTxnID    uint64 `xml:"ClientTxnId"`
}

type responseTransaction struct {
	CreditAuth       *authRsp  `xml:"CreditAuth"`
	CreditSale       *authRsp  `xml:"CreditSale"`
	CreditAddToBatch *emptyRsp `xml:"CreditAddToBatch"`
	CreditReturn     *emptyRsp `xml:"CreditReturn"`
	CreditVoid       *emptyRsp `xml:"CreditVoid"`
}

type authRsp struct {
	RspCode  string `xml:"RspCode"`
	RspText  string `xml:"RspText"`
	AuthCode string `xml:"AuthCode"`
	AVSRslt  string `xml:"AVSRsltCode"`
	CVVRslt  string `xml:"CVVRsltCode"`
}

type emptyRsp struct{}
