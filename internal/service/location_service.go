package service

import (
	"context"
	"strings"
	"sync"

	"github.com/loongallday/pdeservice-spb-sub004/internal/domain"
	"github.com/loongallday/pdeservice-spb-sub004/internal/repository"
)

// LocationService resolves administrative-area codes to display names.
// Provinces are embedded; districts and sub-districts load once per
// instance and are reused for the life of the process. Construct one
// instance per test for isolation instead of sharing a global.
type LocationService struct {
	locations repository.LocationRepository

	mu           sync.RWMutex
	loaded       bool
	districts    map[string]domain.District
	subdistricts map[string]domain.Subdistrict
}

// NewLocationService creates the resolver.
func NewLocationService(locations repository.LocationRepository) *LocationService {
	return &LocationService{locations: locations}
}

// Resolve maps a single code tuple to a display-ready record.
func (s *LocationService) Resolve(ctx context.Context, q domain.LocationQuery) (domain.LocationRecord, error) {
	records, err := s.BatchResolve(ctx, []domain.LocationQuery{q})
	if err != nil {
		return domain.LocationRecord{}, err
	}
	return records[0], nil
}

// BatchResolve resolves many tuples in one pass over the cached tables,
// avoiding one lookup per row.
func (s *LocationService) BatchResolve(ctx context.Context, queries []domain.LocationQuery) ([]domain.LocationRecord, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.LocationRecord, 0, len(queries))
	for _, q := range queries {
		record := domain.LocationRecord{Address: q.Address}
		if name, ok := provinceNames[q.ProvinceCode]; ok {
			record.Province = name
		}
		if district, ok := s.districts[q.DistrictCode]; ok {
			record.District = district.Name
		}
		if subdistrict, ok := s.subdistricts[q.SubdistrictCode]; ok {
			record.Subdistrict = subdistrict.Name
		}
		record.Display = joinDisplay(record.District, record.Province)
		records = append(records, record)
	}
	return records, nil
}

// ClearCache drops the loaded tables so the next call reloads them.
func (s *LocationService) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	s.districts = nil
	s.subdistricts = nil
}

// ensureLoaded populates the maps on first use. Population is idempotent, so
// a concurrent first-load race just repeats the same load.
func (s *LocationService) ensureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	districts, err := s.locations.ListDistricts(ctx)
	if err != nil {
		return err
	}
	subdistricts, err := s.locations.ListSubdistricts(ctx)
	if err != nil {
		return err
	}

	districtMap := make(map[string]domain.District, len(districts))
	for _, d := range districts {
		districtMap[d.Code] = d
	}
	subdistrictMap := make(map[string]domain.Subdistrict, len(subdistricts))
	for _, sd := range subdistricts {
		subdistrictMap[sd.Code] = sd
	}

	s.mu.Lock()
	s.districts = districtMap
	s.subdistricts = subdistrictMap
	s.loaded = true
	s.mu.Unlock()
	return nil
}

func joinDisplay(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}

// provinceNames is the static TIS 1099 province table.
var provinceNames = map[string]string{
	"10": "Bangkok",
	"11": "Samut Prakan",
	"12": "Nonthaburi",
	"13": "Pathum Thani",
	"14": "Phra Nakhon Si Ayutthaya",
	"15": "Ang Thong",
	"16": "Lop Buri",
	"17": "Sing Buri",
	"18": "Chai Nat",
	"19": "Saraburi",
	"20": "Chon Buri",
	"21": "Rayong",
	"22": "Chanthaburi",
	"23": "Trat",
	"24": "Chachoengsao",
	"25": "Prachin Buri",
	"26": "Nakhon Nayok",
	"27": "Sa Kaeo",
	"30": "Nakhon Ratchasima",
	"31": "Buri Ram",
	"32": "Surin",
	"33": "Si Sa Ket",
	"34": "Ubon Ratchathani",
	"35": "Yasothon",
	"36": "Chaiyaphum",
	"37": "Amnat Charoen",
	"38": "Bueng Kan",
	"39": "Nong Bua Lam Phu",
	"40": "Khon Kaen",
	"41": "Udon Thani",
	"42": "Loei",
	"43": "Nong Khai",
	"44": "Maha Sarakham",
	"45": "Roi Et",
	"46": "Kalasin",
	"47": "Sakon Nakhon",
	"48": "Nakhon Phanom",
	"49": "Mukdahan",
	"50": "Chiang Mai",
	"51": "Lamphun",
	"52": "Lampang",
	"53": "Uttaradit",
	"54": "Phrae",
	"55": "Nan",
	"56": "Phayao",
	"57": "Chiang Rai",
	"58": "Mae Hong Son",
	"60": "Nakhon Sawan",
	"61": "Uthai Thani",
	"62": "Kamphaeng Phet",
	"63": "Tak",
	"64": "Sukhothai",
	"65": "Phitsanulok",
	"66": "Phichit",
	"67": "Phetchabun",
	"70": "Ratchaburi",
	"71": "Kanchanaburi",
	"72": "Suphan Buri",
	"73": "Nakhon Pathom",
	"74": "Samut Sakhon",
	"75": "Samut Songkhram",
	"76": "Phetchaburi",
	"77": "Prachuap Khiri Khan",
	"80": "Nakhon Si Thammarat",
	"81": "Krabi",
	"82": "Phangnga",
	"83": "Phuket",
	"84": "Surat Thani",
	"85": "Ranong",
	"86": "Chumphon",
	"90": "Songkhla",
	"91": "Satun",
	"92": "Trang",
	"93": "Phatthalung",
	"94": "Pattani",
	"95": "Yala",
	"96": "Narathiwat",
}
