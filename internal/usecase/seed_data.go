package usecase

import (
	"time"

	"movie-ticketing/internal/data/entity"

	"github.com/shopspring/decimal"
)

type seedMovie struct {
	Title          string
	Description    string
	Rating         entity.MPAARating
	RuntimeMinutes int
	Genre          string
	Released       string
}

type seedUser struct {
	Role      entity.UserRole
	Username  string
	FirstName string
	LastName  string
	Birthday  string
	Address   string
	City      string
	State     string
	Zip       string
	Phone     string
}

type seedReview struct {
	Movie       string
	Customer    string
	Rating      int
	Description string
	Status      entity.ReviewStatus
}

var seedPrices = []entity.Price{
	{ID: 1, TicketType: entity.TicketTypeWeekdayBase, TicketPrice: decimal.RequireFromString("12.00")},
	{ID: 2, TicketType: entity.TicketTypeMatinee, TicketPrice: decimal.RequireFromString("5.00")},
	{ID: 3, TicketType: entity.TicketTypeDiscountTuesday, TicketPrice: decimal.RequireFromString("8.00")},
	{ID: 4, TicketType: entity.TicketTypeWeekends, TicketPrice: decimal.RequireFromString("14.00")},
	{ID: 5, TicketType: entity.TicketTypeSpecialEvent, TicketPrice: decimal.RequireFromString("10.00")},
}

var seedMovies = []seedMovie{
	{
		Title:          "Jurassic Park",
		Description:    "A theme park of cloned dinosaurs suffers a major power breakdown during a preview tour.",
		Rating:         entity.MPAARatingPG13,
		RuntimeMinutes: 127,
		Genre:          "Adventure",
		Released:       "1993-06-11",
	},
	{
		Title:          "The Secret Life of Walter Mitty",
		Description:    "A daydreaming photo manager sets off on a real journey to track down a missing negative.",
		Rating:         entity.MPAARatingPG,
		RuntimeMinutes: 114,
		Genre:          "Comedy",
		Released:       "2013-12-25",
	},
	{
		Title:          "The Goonies",
		Description:    "A group of kids chase a pirate's lost treasure to save their homes from foreclosure.",
		Rating:         entity.MPAARatingPG,
		RuntimeMinutes: 114,
		Genre:          "Adventure",
		Released:       "1985-06-07",
	},
	{
		Title:          "The Hobbit: The Battle of Five Armies",
		Description:    "Bilbo and the dwarves face the armies gathering at the Lonely Mountain.",
		Rating:         entity.MPAARatingPG13,
		RuntimeMinutes: 144,
		Genre:          "Fantasy",
		Released:       "2014-12-17",
	},
}

var seedAdmins = []seedUser{
	{Role: entity.RoleAdmin, Username: "admin", FirstName: "Theatre", LastName: "Manager", Birthday: "1980-01-01", Address: "2021 Guadalupe St", City: "Austin", State: "TX", Zip: "78705", Phone: "5125550100"},
}

var seedCustomers = []seedUser{
	{Role: entity.RoleCustomer, Username: "michelle", FirstName: "Michelle", LastName: "Banks", Birthday: "1985-03-14", Address: "1210 Guadalupe St", City: "Austin", State: "TX", Zip: "78701", Phone: "5125550101"},
	{Role: entity.RoleCustomer, Username: "christopher", FirstName: "Christopher", LastName: "Baker", Birthday: "1990-07-22", Address: "410 W 6th St", City: "Austin", State: "TX", Zip: "78701", Phone: "5125550102"},
	{Role: entity.RoleCustomer, Username: "brad", FirstName: "Brad", LastName: "Ingram", Birthday: "1978-11-02", Address: "88 Lake Austin Blvd", City: "Austin", State: "TX", Zip: "78703", Phone: "5125550103"},
	{Role: entity.RoleCustomer, Username: "franco", FirstName: "Franco", LastName: "Broccolo", Birthday: "1995-01-30", Address: "2500 Speedway", City: "Austin", State: "TX", Zip: "78712", Phone: "5125550104"},
	{Role: entity.RoleCustomer, Username: "wendy", FirstName: "Wendy", LastName: "Chang", Birthday: "1988-05-09", Address: "3100 S Congress Ave", City: "Austin", State: "TX", Zip: "78704", Phone: "5125550105"},
	{Role: entity.RoleCustomer, Username: "lim", FirstName: "Lim", LastName: "Chou", Birthday: "1992-09-17", Address: "901 E 5th St", City: "Austin", State: "TX", Zip: "78702", Phone: "5125550106"},
	{Role: entity.RoleCustomer, Username: "shan", FirstName: "Shan", LastName: "Dixon", Birthday: "2000-02-11", Address: "1500 Barton Springs Rd", City: "Austin", State: "TX", Zip: "78704", Phone: "5125550107"},
	{Role: entity.RoleCustomer, Username: "jimbob", FirstName: "Jim Bob", LastName: "Evans", Birthday: "1970-12-24", Address: "77 Ranch Rd 620", City: "Lakeway", State: "TX", Zip: "78734", Phone: "5125550108"},
}

var seedReviews = []seedReview{
	{Movie: "Jurassic Park", Customer: "michelle", Rating: 5, Description: "Best Movie I've ever seen.", Status: entity.ReviewStatusApproved},
	{Movie: "The Secret Life of Walter Mitty", Customer: "christopher", Rating: 4, Description: "Not bad.", Status: entity.ReviewStatusApproved},
	{Movie: "Jurassic Park", Customer: "brad", Rating: 5, Description: "Changed my life", Status: entity.ReviewStatusApproved},
	{Movie: "The Goonies", Customer: "franco", Rating: 5, Description: "Great family adventure Movie", Status: entity.ReviewStatusApproved},
	{Movie: "The Goonies", Customer: "wendy", Rating: 4, Description: "Good Movie", Status: entity.ReviewStatusApproved},
	{Movie: "The Goonies", Customer: "lim", Rating: 1, Description: "Worst thing I've ever seen", Status: entity.ReviewStatusApproved},
	{Movie: "The Goonies", Customer: "brad", Rating: 5, Description: "Reminded me of my summers in the NW", Status: entity.ReviewStatusApproved},
	{Movie: "The Goonies", Customer: "shan", Rating: 5, Description: "I love a good treasure hunt!", Status: entity.ReviewStatusNeedsReview},
	{Movie: "The Goonies", Customer: "jimbob", Rating: 3, Description: "Meh", Status: entity.ReviewStatusApproved},
	{Movie: "The Hobbit: The Battle of Five Armies", Customer: "christopher", Rating: 4, Status: entity.ReviewStatusApproved},
	{Movie: "The Hobbit: The Battle of Five Armies", Customer: "brad", Rating: 4, Status: entity.ReviewStatusApproved},
	{Movie: "The Hobbit: The Battle of Five Armies", Customer: "michelle", Rating: 5, Status: entity.ReviewStatusApproved},
	{Movie: "The Hobbit: The Battle of Five Armies", Customer: "franco", Rating: 5, Status: entity.ReviewStatusApproved},
	{Movie: "The Hobbit: The Battle of Five Armies", Customer: "wendy", Rating: 1, Description: "Too long", Status: entity.ReviewStatusNeedsReview},
	{Movie: "The Hobbit: The Battle of Five Armies", Customer: "lim", Rating: 2, Description: "Did they really need to drag this out into its own Movie?", Status: entity.ReviewStatusNeedsReview},
}

func mustDate(value string) *time.Time {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		panic(err)
	}
	return &t
}
