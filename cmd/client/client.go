package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"

	"fenrir/internal/book"
	fenrirNet "fenrir/internal/net"

	"github.com/shopspring/decimal"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:9001", "Address of the exchange server")
	action := flag.String("action", "place", "Action to perform: ['place', 'cancel', 'log']")

	sideStr := flag.String("side", "buy", "Order side: 'buy' or 'sell'")
	traitsStr := flag.String("traits", "vanilla", "Order traits: 'vanilla', 'ioc', or 'fok'")
	price := flag.String("price", "100.00", "Limit price")
	size := flag.String("size", "10", "Order size")
	id := flag.Uint64("id", 0, "Order id (required for place/cancel)")
	acct := flag.Uint64("acct", 0, "Account id, 0 means none")

	flag.Parse()

	conn, err := net.Dial("tcp", *serverAddr)
	if err != nil {
		log.Fatalf("Failed to connect to server at %s: %v", *serverAddr, err)
	}
	defer conn.Close()
	fmt.Printf("Connected to %s\n", *serverAddr)

	go readReports(conn)

	side := book.Buy
	if strings.ToLower(*sideStr) == "sell" {
		side = book.Sell
	}

	traits := book.Vanilla
	switch strings.ToLower(*traitsStr) {
	case "ioc":
		traits = book.IOC
	case "fok":
		traits = book.FOK
	}

	sizeDec, err := decimal.NewFromString(*size)
	if err != nil {
		log.Fatalf("invalid size: %v", err)
	}
	priceDec, err := decimal.NewFromString(*price)
	if err != nil {
		log.Fatalf("invalid price: %v", err)
	}

	var acctPtr *uint64
	if *acct != 0 {
		acctPtr = acct
	}

	switch strings.ToLower(*action) {
	case "place":
		msg := fenrirNet.NewOrderMessage{
			Side:   side,
			Traits: traits,
			ID:     *id,
			Acct:   acctPtr,
			Size:   sizeDec,
			Price:  priceDec,
		}
		if _, err := conn.Write(msg.Serialize()); err != nil {
			log.Fatalf("failed to send order: %v", err)
		}
		fmt.Printf("-> Sent %s order: %s @ %s (id=%d)\n", strings.ToUpper(*sideStr), sizeDec, priceDec, *id)

	case "cancel":
		msg := fenrirNet.CancelOrderMessage{Side: side, ID: *id, Price: priceDec}
		if _, err := conn.Write(msg.Serialize()); err != nil {
			log.Fatalf("failed to send cancel: %v", err)
		}
		fmt.Printf("-> Sent cancel request for id=%d\n", *id)

	case "log":
		buf := make([]byte, fenrirNet.BaseMessageHeaderLen)
		binary.BigEndian.PutUint16(buf[0:2], uint16(fenrirNet.LogBook))
		if _, err := conn.Write(buf); err != nil {
			log.Fatalf("failed to send log request: %v", err)
		}
		fmt.Println("-> Sent log request")

	default:
		log.Fatalf("Unknown action: %s", *action)
	}

	fmt.Println("\nListening for reports... (Press Ctrl+C to exit)")
	select {}
}

// readReports continuously reads and parses Report messages from the server.
func readReports(conn net.Conn) {
	for {
		buf := make([]byte, 4*1024)
		n, err := conn.Read(buf)
		if err != nil {
			if err != io.EOF {
				log.Printf("Connection lost: %v", err)
			}
			os.Exit(0)
		}

		r, err := fenrirNet.ParseReport(buf[:n])
		if err != nil {
			log.Printf("failed to parse report: %v", err)
			continue
		}

		if r.MessageType == fenrirNet.ErrorReport {
			fmt.Printf("\n[SERVER ERROR] %s\n", r.ErrStr)
			continue
		}

		sideStr := "BUY"
		if r.Side == book.Sell {
			sideStr = "SELL"
		}
		fmt.Printf("\n[EXECUTION] %s id=%d | Size: %s | Price: %s\n", sideStr, r.OrderID, r.Size, r.Price)
	}
}
