package client

import "nbastats/ingestion/internal/models"

// Teams returns the static NBA franchise table. The upstream team endpoint is
// unreliable and the league composition changes rarely, so bootstrap uses
// this list and re-ingestion upserts over it.
func (c *Client) Teams() []models.TeamRecord {
	return staticTeams
}

var staticTeams = []models.TeamRecord{
	{TeamID: 1610612737, Abbreviation: "ATL", Name: "Atlanta Hawks", City: "Atlanta", Conference: "East", Division: "Southeast"},
	{TeamID: 1610612738, Abbreviation: "BOS", Name: "Boston Celtics", City: "Boston", Conference: "East", Division: "Atlantic"},
	{TeamID: 1610612751, Abbreviation: "BKN", Name: "Brooklyn Nets", City: "Brooklyn", Conference: "East", Division: "Atlantic"},
	{TeamID: 1610612766, Abbreviation: "CHA", Name: "Charlotte Hornets", City: "Charlotte", Conference: "East", Division: "Southeast"},
	{TeamID: 1610612741, Abbreviation: "CHI", Name: "Chicago Bulls", City: "Chicago", Conference: "East", Division: "Central"},
	{TeamID: 1610612739, Abbreviation: "CLE", Name: "Cleveland Cavaliers", City: "Cleveland", Conference: "East", Division: "Central"},
	{TeamID: 1610612742, Abbreviation: "DAL", Name: "Dallas Mavericks", City: "Dallas", Conference: "West", Division: "Southwest"},
	{TeamID: 1610612743, Abbreviation: "DEN", Name: "Denver Nuggets", City: "Denver", Conference: "West", Division: "Northwest"},
	{TeamID: 1610612765, Abbreviation: "DET", Name: "Detroit Pistons", City: "Detroit", Conference: "East", Division: "Central"},
	{TeamID: 1610612744, Abbreviation: "GSW", Name: "Golden State Warriors", City: "San Francisco", Conference: "West", Division: "Pacific"},
	{TeamID: 1610612745, Abbreviation: "HOU", Name: "Houston Rockets", City: "Houston", Conference: "West", Division: "Southwest"},
	{TeamID: 1610612754, Abbreviation: "IND", Name: "Indiana Pacers", City: "Indianapolis", Conference: "East", Division: "Central"},
	{TeamID: 1610612746, Abbreviation: "LAC", Name: "LA Clippers", City: "Los Angeles", Conference: "West", Division: "Pacific"},
	{TeamID: 1610612747, Abbreviation: "LAL", Name: "Los Angeles Lakers", City: "Los Angeles", Conference: "West", Division: "Pacific"},
	{TeamID: 1610612763, Abbreviation: "MEM", Name: "Memphis Grizzlies", City: "Memphis", Conference: "West", Division: "Southwest"},
	{TeamID: 1610612748, Abbreviation: "MIA", Name: "Miami Heat", City: "Miami", Conference: "East", Division: "Southeast"},
	{TeamID: 1610612749, Abbreviation: "MIL", Name: "Milwaukee Bucks", City: "Milwaukee", Conference: "East", Division: "Central"},
	{TeamID: 1610612750, Abbreviation: "MIN", Name: "Minnesota Timberwolves", City: "Minneapolis", Conference: "West", Division: "Northwest"},
	{TeamID: 1610612740, Abbreviation: "NOP", Name: "New Orleans Pelicans", City: "New Orleans", Conference: "West", Division: "Southwest"},
	{TeamID: 1610612752, Abbreviation: "NYK", Name: "New York Knicks", City: "New York", Conference: "East", Division: "Atlantic"},
	{TeamID: 1610612760, Abbreviation: "OKC", Name: "Oklahoma City Thunder", City: "Oklahoma City", Conference: "West", Division: "Northwest"},
	{TeamID: 1610612753, Abbreviation: "ORL", Name: "Orlando Magic", City: "Orlando", Conference: "East", Division: "Southeast"},
	{TeamID: 1610612755, Abbreviation: "PHI", Name: "Philadelphia 76ers", City: "Philadelphia", Conference: "East", Division: "Atlantic"},
	{TeamID: 1610612756, Abbreviation: "PHX", Name: "Phoenix Suns", City: "Phoenix", Conference: "West", Division: "Pacific"},
	{TeamID: 1610612757, Abbreviation: "POR", Name: "Portland Trail Blazers", City: "Portland", Conference: "West", Division: "Northwest"},
	{TeamID: 1610612758, Abbreviation: "SAC", Name: "Sacramento Kings", City: "Sacramento", Conference: "West", Division: "Pacific"},
	{TeamID: 1610612759, Abbreviation: "SAS", Name: "San Antonio Spurs", City: "San Antonio", Conference: "West", Division: "Southwest"},
	{TeamID: 1610612761, Abbreviation: "TOR", Name: "Toronto Raptors", City: "Toronto", Conference: "East", Division: "Atlantic"},
	{TeamID: 1610612762, Abbreviation: "UTA", Name: "Utah Jazz", City: "Salt Lake City", Conference: "West", Division: "Northwest"},
	{TeamID: 1610612764, Abbreviation: "WAS", Name: "Washington Wizards", City: "Washington", Conference: "East", Division: "Southeast"},
}
