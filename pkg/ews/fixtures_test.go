package ews

import (
	"context"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"
)

// envelope wraps body in a SOAP 1.1 envelope declaring the usual EWS
// prefixes.
func envelope(body string) string {
	return `<?xml version="1.0" encoding="utf-8"?>
<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/">
  <s:Header>
    <h:ServerVersionInfo xmlns:h="http://schemas.microsoft.com/exchange/services/2006/types" MajorVersion="15"/>
  </s:Header>
  <s:Body xmlns:m="http://schemas.microsoft.com/exchange/services/2006/messages"
          xmlns:t="http://schemas.microsoft.com/exchange/services/2006/types">
` + body + `
  </s:Body>
</s:Envelope>`
}

// responseMessage builds a <m:{op}ResponseMessage> with the given class and
// inner elements.
func responseMessage(op, class, inner string) string {
	code := "NoError"
	if class != "Success" {
		code = "ErrorItemNotFound"
	}
	return `<m:` + op + `Response><m:ResponseMessages>
  <m:` + op + `ResponseMessage ResponseClass="` + class + `">
    <m:ResponseCode>` + code + `</m:ResponseCode>
    ` + inner + `
  </m:` + op + `ResponseMessage>
</m:ResponseMessages></m:` + op + `Response>`
}

func mustDocument(t *testing.T, xml string) *etree.Document {
	t.Helper()
	doc, err := ReadDocument([]byte(xml))
	require.NoError(t, err)
	return doc
}

func mustParse(t *testing.T, op Operation, xml string) *Response {
	t.Helper()
	resp, err := NewParser().ParseBytes(context.Background(), op, []byte(xml))
	require.NoError(t, err)
	require.NotNil(t, resp)
	return resp
}

const twoItems = `<m:Items>
  <t:Message>
    <t:ItemId Id="AAMkA1" ChangeKey="CQAAAB1"/>
    <t:Subject>First</t:Subject>
  </t:Message>
  <t:Message>
    <t:ItemId Id="AAMkA2" ChangeKey="CQAAAB2"/>
    <t:Subject>Second</t:Subject>
  </t:Message>
</m:Items>`

const getEventsBody = `<m:GetEventsResponse><m:ResponseMessages>
  <m:GetEventsResponseMessage ResponseClass="Success">
    <m:ResponseCode>NoError</m:ResponseCode>
    <m:Notification>
      <t:SubscriptionId>sub-123</t:SubscriptionId>
      <t:PreviousWatermark>wm-0</t:PreviousWatermark>
      <t:MoreEvents>TRUE</t:MoreEvents>
      <t:CreatedEvent>
        <t:Watermark>wm-1</t:Watermark>
        <t:TimeStamp>2024-01-01T10:00:00Z</t:TimeStamp>
        <t:ItemId Id="AAMkA1"/>
      </t:CreatedEvent>
      <t:ModifiedEvent>
        <t:Watermark>wm-2</t:Watermark>
        <t:ItemId Id="AAMkA1"/>
      </t:ModifiedEvent>
      <t:StatusEvent>
        <t:Watermark>wm-3</t:Watermark>
      </t:StatusEvent>
    </m:Notification>
  </m:GetEventsResponseMessage>
</m:ResponseMessages></m:GetEventsResponse>`
