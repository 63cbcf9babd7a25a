package prompt

// Placeholders, in order: total income, total expenses, balance, income lines,
// expense lines. Every amount already carries its currency code.

const englishTemplate = `You review a personal budget in a plain, friendly voice.
The reader is on a phone, so keep sentences short and use plain text only.
Do not use markdown, asterisks, headings with # or tables.

OVERVIEW NUMBERS:
- Total income: %s
- Total expenses: %s
- Balance: %s

INCOME LIST:
%s

EXPENSE LIST:
%s

Answer using exactly these section titles, written as plain text:

A) Short clear summary
- 2 to 3 short lines about income, expenses and balance

B) Main spending patterns
- 3 to 4 bullet points on where most of the money goes

C) Weak financial points
- Up to 3 bullets naming the riskiest habits or categories

D) Category-by-category notes
- One line per category, for example "- Food: short comment"

E) Concrete improvements
- 3 to 5 bullets, each with a number or a timeframe

F) Future projection
- 2 to 3 sentences: one if nothing changes, one if the improvements are made

G) Honest assessment
- One direct paragraph, readable and not academic

H) Money management tips for what is left
- 5 practical tips, each short and easy to act on

Rules:
- No long essays. Keep every section short and easy to scan.
- No markdown and no asterisks anywhere in the answer.
`

const uzbekTemplate = `Siz shaxsiy byudjetni oddiy va samimiy tilda tahlil qilasiz.
Matn telefon ekranida o'qiladi, shuning uchun gaplar qisqa va oddiy matn bo'lsin.
Markdown, yulduzcha belgilari, # sarlavhalar yoki jadvallar ishlatmang.

UMUMIY RAQAMLAR:
- Jami daromad: %s
- Jami xarajat: %s
- Qoldiq: %s

DAROMADLAR RO'YXATI:
%s

XARAJATLAR RO'YXATI:
%s

Javobni aynan quyidagi bo'lim nomlari bilan, oddiy matnda yozing:

A) Qisqa va aniq xulosa
- Daromad, xarajat va qoldiq haqida 2-3 ta qisqa satr

B) Xarajatlarning asosiy yo'nalishlari
- Pul eng ko'p qayerga ketayotgani haqida 3-4 ta punkt

C) Eng zaif moliyaviy joylar
- Eng xavfli odatlar yoki kategoriyalar haqida 3 tagacha punkt

D) Kategoriyalar bo'yicha izoh
- Har bir kategoriya uchun bitta satr, masalan "- Food: qisqa izoh"

E) Aniq takliflar
- 3-5 ta punkt, har birida raqam yoki muddat bo'lsin

F) Kelajak prognozi
- 2-3 ta gap: hech narsa o'zgarmasa va takliflar bajarilsa

G) Ochiq baho
- Bitta to'g'ridan-to'g'ri, oson o'qiladigan paragraf

H) Qolgan pulni boshqarish bo'yicha maslahatlar
- 5 ta amaliy maslahat, har biri qisqa va bajarish oson

Qoidalar:
- Uzun matn yozmang. Har bir bo'lim qisqa bo'lsin.
- Javobda markdown va yulduzcha belgilari bo'lmasin.
`
