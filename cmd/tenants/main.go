package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"crewtrack.com/crewtrack/console"
	"crewtrack.com/crewtrack/utils"
)

// Lists every subscription in the control plane with its status, or looks
// up a single domain when one is given as an argument. Handy during
// support calls to confirm which tenant a domain resolves to.
func main() {
	ctx := context.Background()

	db, err := console.Connect(ctx)
	if err != nil {
		log.Fatalf("failed to connect to console: %v", err)
	}

	now := time.Now()

	if len(os.Args) > 1 {
		sub, err := console.FindSubscriptionByDomain(db, os.Args[1])
		if err != nil {
			log.Fatalf("failed to look up %s: %v", os.Args[1], err)
		}
		if sub == nil {
			log.Fatalf("no subscription for domain %s", os.Args[1])
		}
		printSubscription(sub, now)
		return
	}

	subs, err := console.GetSubscriptions(db)
	if err != nil {
		log.Fatalf("failed to list subscriptions: %v", err)
	}
	for i := range subs {
		printSubscription(&subs[i], now)
	}

	accounts, err := console.GetAccounts(db)
	if err != nil {
		log.Fatalf("failed to list accounts: %v", err)
	}
	byAccount := utils.GroupBy(subs, func(s console.Subscription) int {
		if s.AccountID == nil {
			return 0
		}
		return *s.AccountID
	})
	unsubscribed := utils.Filter(accounts, func(a console.Account) bool {
		return len(byAccount[a.ID]) == 0
	})
	for _, a := range unsubscribed {
		fmt.Printf("%-30s %-20s no subscription\n", "-", a.Name)
	}
}

func printSubscription(sub *console.Subscription, now time.Time) {
	status := utils.FormatBoolean(sub.IsActive(now), "active", "inactive")
	fmt.Printf("%-30s %-20s %-10s seats=%d expires=%s\n",
		sub.Domain,
		sub.Account.Name,
		status,
		sub.Employees,
		sub.ExpiredAt.Format("2006-01-02"),
	)
}
